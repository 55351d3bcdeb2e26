package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/chromedp/chromedp"

	"github.com/preyforum/preyforum/preyforum/progression"
)

// ProgressCardService renders a user's progression snapshot as a shareable
// PNG by screenshotting a small HTML card in headless Chrome.
type ProgressCardService struct {
	logger *slog.Logger
	tmpl   *template.Template
}

type progressCardData struct {
	Username     string
	AvatarLetter string
	Role         string
	Balance      int64
	Progress     float64
	NextRole     string
	NextCost     int64
	HasNext      bool
}

func NewProgressCardService() *ProgressCardService {
	return &ProgressCardService{
		logger: slog.With(slog.String("service", "progress_card")),
		tmpl:   template.Must(template.New("card").Parse(progressCardHTML)),
	}
}

func (s *ProgressCardService) GenerateCard(ctx context.Context, username string, report *progression.ProgressReport) ([]byte, error) {
	start := time.Now()

	data := progressCardData{
		Username:     username,
		AvatarLetter: avatarLetter(username),
		Role:         string(report.Role),
		Balance:      report.Balance,
		Progress:     report.Progress,
	}
	if report.Next != nil {
		data.HasNext = true
		data.NextRole = string(report.Next.Role)
		data.NextCost = report.Next.Threshold
	}

	htmlContent, err := s.renderHTML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to render card HTML: %w", err)
	}

	chromedpCtx, cancel := chromedp.NewContext(ctx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancel()

	chromedpCtx, cancel = context.WithTimeout(chromedpCtx, 15*time.Second)
	defer cancel()

	var imageBytes []byte
	err = chromedp.Run(chromedpCtx,
		chromedp.Navigate("data:text/html,"+htmlContent),
		chromedp.WaitVisible("#progress-card", chromedp.ByID),
		chromedp.Sleep(200*time.Millisecond),
		chromedp.Screenshot("#progress-card", &imageBytes, chromedp.ByID),
	)
	if err != nil {
		s.logger.Error("Failed to render progress card",
			slog.String("username", username),
			slog.Any("error", err))
		return nil, fmt.Errorf("failed to render progress card: %w", err)
	}

	s.logger.Debug("Progress card rendered",
		slog.String("username", username),
		slog.Int("image_size", len(imageBytes)),
		slog.Duration("took", time.Since(start)))

	return imageBytes, nil
}

// avatarLetter picks the first rune of the username for the avatar circle.
// Usernames are often Cyrillic, so byte slicing would produce mojibake.
func avatarLetter(username string) string {
	r, size := utf8.DecodeRuneInString(username)
	if size == 0 || r == utf8.RuneError {
		return "?"
	}
	return strings.ToUpper(string(r))
}

func (s *ProgressCardService) renderHTML(data progressCardData) (string, error) {
	var buf bytes.Buffer
	if err := s.tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	// data: URLs choke on raw # and newlines.
	htmlContent := strings.ReplaceAll(buf.String(), "#", "%23")
	htmlContent = strings.ReplaceAll(htmlContent, "\n", "")
	return htmlContent, nil
}

const progressCardHTML = `<!DOCTYPE html>
<html>
<head>
<style>
body { margin: 0; font-family: 'Segoe UI', sans-serif; }
#progress-card {
  width: 480px; padding: 24px; box-sizing: border-box;
  background: linear-gradient(135deg, #1f2233, #2b2d42); color: #fff;
  border-radius: 12px;
}
.header { display: flex; align-items: center; gap: 16px; }
.avatar {
  width: 56px; height: 56px; border-radius: 50%; background: #7b68ee;
  display: flex; align-items: center; justify-content: center;
  font-size: 28px; font-weight: bold;
}
.role { color: #ffd700; font-size: 14px; }
.balance { margin-top: 16px; font-size: 15px; }
.bar { margin-top: 12px; height: 10px; background: #444; border-radius: 5px; }
.fill { height: 100%; background: #7b68ee; border-radius: 5px; width: {{.Progress}}%; }
.next { margin-top: 8px; font-size: 12px; color: #aaa; }
</style>
</head>
<body>
<div id="progress-card">
  <div class="header">
    <div class="avatar">{{.AvatarLetter}}</div>
    <div>
      <div>{{.Username}}</div>
      <div class="role">{{.Role}}</div>
    </div>
  </div>
  <div class="balance">{{.Balance}} Preycoin</div>
  <div class="bar"><div class="fill"></div></div>
  {{if .HasNext}}<div class="next">Next: {{.NextRole}} at {{.NextCost}} Preycoin</div>{{end}}
</div>
</body>
</html>`
