package migration

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	pgx "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/uptrace/bun"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"

	"github.com/preyforum/preyforum/preyforum/database/models"
)

// Migrator imports the legacy forum into Postgres. Two sources are
// supported: the realtime-database JSON export the old frontend was backed
// by, and a Mongo mirror of the same data for deployments that staged it
// there first.
type Migrator struct {
	pgDB       *bun.DB
	exportPath string
	batchSize  int

	stats MigrationStats

	// Optional direct Mongo access
	mongoDB   *mongo.Database
	collNames map[string]string

	// Tuning
	sleepBetween time.Duration

	// Optional: use pgx CopyFrom for fastest bulk inserts
	useCopy bool
	pool    *pgxpool.Pool

	// Legacy push ID -> new serial ID, filled as tables land.
	categoryIDs map[string]int64
	postIDs     map[string]int64
}

func NewMigrator(pgDB *bun.DB, exportPath string) *Migrator {
	return &Migrator{
		pgDB:       pgDB,
		exportPath: exportPath,
		batchSize:  1000,
		stats: MigrationStats{
			Tables:    make(map[string]*TableStats),
			StartTime: time.Now(),
		},
		collNames: map[string]string{
			"users":      "users",
			"categories": "categories",
			"posts":      "posts",
		},
		categoryIDs: make(map[string]int64),
		postIDs:     make(map[string]int64),
	}
}

// SetBatchSize overrides the default batch size for inserts (useful for poolers/timeouts)
func (m *Migrator) SetBatchSize(size int) {
	if size > 0 {
		m.batchSize = size
	}
}

// SetSleepBetween sets an optional sleep between batch inserts (milliseconds)
func (m *Migrator) SetSleepBetween(ms int) {
	if ms > 0 {
		m.sleepBetween = time.Duration(ms) * time.Millisecond
	}
}

// SetUseCopy enables COPY FROM mode using pgx (fast path)
func (m *Migrator) SetUseCopy(v bool) { m.useCopy = v }

// UsePool sets the pgx pool for COPY operations
func (m *Migrator) UsePool(pool *pgxpool.Pool) { m.pool = pool }

// UseMongo points the migrator at a Mongo mirror instead of the JSON export.
func (m *Migrator) UseMongo(client *mongo.Client, dbName string) {
	m.mongoDB = client.Database(dbName)
}

// SetMongoCollectionName overrides a source collection name.
func (m *Migrator) SetMongoCollectionName(kind, name string) {
	if _, ok := m.collNames[kind]; ok && name != "" {
		m.collNames[kind] = name
	}
}

// MigrateAll runs the full import from the JSON export: users and
// categories land first in parallel, then posts and their comments, which
// need the category ID mapping.
func (m *Migrator) MigrateAll(ctx context.Context) error {
	export, err := m.loadExport()
	if err != nil {
		return err
	}

	slog.Info("Starting legacy import",
		slog.Int("users", len(export.Users)),
		slog.Int("categories", len(export.Categories)),
		slog.Int("posts", len(export.Posts)))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return m.migrateUsers(gctx, export.Users) })
	g.Go(func() error { return m.migrateCategories(gctx, export.Categories) })
	if err := g.Wait(); err != nil {
		return err
	}

	if err := m.migratePosts(ctx, export.Posts); err != nil {
		return err
	}

	m.report()
	return nil
}

// MigrateAllFromMongo runs the full import reading from the Mongo mirror.
func (m *Migrator) MigrateAllFromMongo(ctx context.Context) error {
	if m.mongoDB == nil {
		return fmt.Errorf("mongo source not configured")
	}

	users, err := decodeAll[LegacyUser](ctx, m.mongoDB.Collection(m.collNames["users"]))
	if err != nil {
		return fmt.Errorf("failed to read users from mongo: %w", err)
	}
	categories, err := decodeAll[LegacyCategory](ctx, m.mongoDB.Collection(m.collNames["categories"]))
	if err != nil {
		return fmt.Errorf("failed to read categories from mongo: %w", err)
	}
	posts, err := decodeAll[LegacyPost](ctx, m.mongoDB.Collection(m.collNames["posts"]))
	if err != nil {
		return fmt.Errorf("failed to read posts from mongo: %w", err)
	}

	userMap := make(map[string]LegacyUser, len(users))
	for _, u := range users {
		userMap[u.UID] = u
	}
	categoryMap := make(map[string]LegacyCategory, len(categories))
	for _, c := range categories {
		categoryMap[c.ID] = c
	}
	postMap := make(map[string]LegacyPost, len(posts))
	for _, p := range posts {
		postMap[p.ID] = p
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return m.migrateUsers(gctx, userMap) })
	g.Go(func() error { return m.migrateCategories(gctx, categoryMap) })
	if err := g.Wait(); err != nil {
		return err
	}

	if err := m.migratePosts(ctx, postMap); err != nil {
		return err
	}

	m.report()
	return nil
}

func (m *Migrator) loadExport() (*LegacyExport, error) {
	file, err := os.Open(m.exportPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open export: %w", err)
	}
	defer file.Close()

	var export LegacyExport
	if err := json.NewDecoder(file).Decode(&export); err != nil {
		return nil, fmt.Errorf("failed to decode export: %w", err)
	}
	return &export, nil
}

func (m *Migrator) migrateUsers(ctx context.Context, legacy map[string]LegacyUser) error {
	start := time.Now()
	stats := m.stats.table("users")

	batch := make([]*models.User, 0, m.batchSize)
	for uid, lu := range legacy {
		stats.Read++
		if uid == "" {
			stats.Skipped++
			continue
		}
		batch = append(batch, m.convertUser(uid, lu))
		if len(batch) >= m.batchSize {
			if err := m.insertUsers(ctx, batch); err != nil {
				return err
			}
			stats.Written += len(batch)
			batch = batch[:0]
			m.pause()
		}
	}
	if len(batch) > 0 {
		if err := m.insertUsers(ctx, batch); err != nil {
			return err
		}
		stats.Written += len(batch)
	}

	stats.Duration = time.Since(start)
	slog.Info("Users migrated",
		slog.Int("written", stats.Written),
		slog.Int("skipped", stats.Skipped),
		slog.Duration("took", stats.Duration))
	return nil
}

func (m *Migrator) insertUsers(ctx context.Context, users []*models.User) error {
	if m.useCopy && m.pool != nil {
		return m.copyUpsertUsers(ctx, users)
	}

	_, err := m.pgDB.NewInsert().
		Model(&users).
		On("CONFLICT (prey_uid) DO UPDATE").
		Set("username = EXCLUDED.username").
		Set("avatar_url = EXCLUDED.avatar_url").
		Set("signature = EXCLUDED.signature").
		Set("role = EXCLUDED.role").
		Set("balance = EXCLUDED.balance").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to insert users: %w", err)
	}
	return nil
}

// copyUpsertUsers streams the batch into a temp table with pgx CopyFrom and
// upserts from there. Much faster than row inserts on large exports.
func (m *Migrator) copyUpsertUsers(ctx context.Context, users []*models.User) error {
	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire conn: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, `CREATE TEMP TABLE IF NOT EXISTS tmp_users
		(LIKE users INCLUDING DEFAULTS) ON COMMIT PRESERVE ROWS`); err != nil {
		return fmt.Errorf("failed to create temp table: %w", err)
	}
	if _, err := conn.Exec(ctx, `TRUNCATE tmp_users`); err != nil {
		return fmt.Errorf("failed to truncate temp table: %w", err)
	}

	columns := []string{"prey_uid", "username", "avatar_url", "signature", "role", "balance", "created_at", "updated_at"}
	rows := make([][]any, 0, len(users))
	for _, u := range users {
		rows = append(rows, []any{u.PreyUID, u.Username, u.AvatarURL, u.Signature, u.Role, u.Balance, u.CreatedAt, u.UpdatedAt})
	}

	if _, err := conn.Conn().CopyFrom(ctx, pgx.Identifier{"tmp_users"}, columns, pgx.CopyFromRows(rows)); err != nil {
		return fmt.Errorf("copy failed: %w", err)
	}

	_, err = conn.Exec(ctx, `INSERT INTO users (prey_uid, username, avatar_url, signature, role, balance, created_at, updated_at)
		SELECT prey_uid, username, avatar_url, signature, role, balance, created_at, updated_at FROM tmp_users
		ON CONFLICT (prey_uid) DO UPDATE SET
			username = EXCLUDED.username,
			avatar_url = EXCLUDED.avatar_url,
			signature = EXCLUDED.signature,
			role = EXCLUDED.role,
			balance = EXCLUDED.balance,
			updated_at = EXCLUDED.updated_at`)
	if err != nil {
		return fmt.Errorf("upsert from temp table failed: %w", err)
	}
	return nil
}

func (m *Migrator) migrateCategories(ctx context.Context, legacy map[string]LegacyCategory) error {
	start := time.Now()
	stats := m.stats.table("categories")

	for legacyID, lc := range legacy {
		stats.Read++
		if legacyID == "" || lc.Name == "" {
			stats.Skipped++
			continue
		}

		category := m.convertCategory(legacyID, lc)
		_, err := m.pgDB.NewInsert().
			Model(category).
			On("CONFLICT (legacy_id) DO UPDATE").
			Set("name = EXCLUDED.name").
			Set("description = EXCLUDED.description").
			Set("is_unique = EXCLUDED.is_unique").
			Set("updated_at = EXCLUDED.updated_at").
			Returning("id").
			Exec(ctx)
		if err != nil {
			stats.Failed++
			slog.Error("Failed to migrate category",
				slog.String("legacy_id", legacyID),
				slog.Any("error", err))
			continue
		}

		m.categoryIDs[legacyID] = category.ID
		stats.Written++
	}

	stats.Duration = time.Since(start)
	slog.Info("Categories migrated",
		slog.Int("written", stats.Written),
		slog.Int("skipped", stats.Skipped),
		slog.Duration("took", stats.Duration))
	return nil
}

func (m *Migrator) migratePosts(ctx context.Context, legacy map[string]LegacyPost) error {
	start := time.Now()
	stats := m.stats.table("posts")

	for legacyID, lp := range legacy {
		stats.Read++

		categoryID, ok := m.categoryIDs[lp.CategoryID]
		if !ok {
			stats.Skipped++
			slog.Warn("Post references unknown category",
				slog.String("post", legacyID),
				slog.String("category", lp.CategoryID))
			continue
		}

		post := m.convertPost(lp, categoryID)
		if _, err := m.pgDB.NewInsert().Model(post).Returning("id").Exec(ctx); err != nil {
			stats.Failed++
			slog.Error("Failed to migrate post",
				slog.String("legacy_id", legacyID),
				slog.Any("error", err))
			continue
		}

		m.postIDs[legacyID] = post.ID
		stats.Written++

		if err := m.migrateComments(ctx, post.ID, lp.Comments); err != nil {
			return err
		}
	}

	stats.Duration = time.Since(start)
	slog.Info("Posts migrated",
		slog.Int("written", stats.Written),
		slog.Int("skipped", stats.Skipped),
		slog.Duration("took", stats.Duration))
	return nil
}

func (m *Migrator) migrateComments(ctx context.Context, postID int64, legacy map[string]LegacyComment) error {
	stats := m.stats.table("comments")

	// Two passes so replies can resolve their parent's new ID.
	newIDs := make(map[string]int64, len(legacy))

	for legacyID, lc := range legacy {
		if lc.ParentID != "" {
			continue
		}
		stats.Read++

		comment := m.convertComment(lc, postID, 0)
		if _, err := m.pgDB.NewInsert().Model(comment).Returning("id").Exec(ctx); err != nil {
			stats.Failed++
			slog.Error("Failed to migrate comment",
				slog.String("legacy_id", legacyID),
				slog.Any("error", err))
			continue
		}
		newIDs[legacyID] = comment.ID
		stats.Written++
	}

	for legacyID, lc := range legacy {
		if lc.ParentID == "" {
			continue
		}
		stats.Read++

		parentID, ok := newIDs[lc.ParentID]
		if !ok {
			stats.Skipped++
			continue
		}

		comment := m.convertComment(lc, postID, parentID)
		if _, err := m.pgDB.NewInsert().Model(comment).Exec(ctx); err != nil {
			stats.Failed++
			slog.Error("Failed to migrate comment",
				slog.String("legacy_id", legacyID),
				slog.Any("error", err))
			continue
		}
		stats.Written++
	}

	return nil
}

// decodeAll drains a Mongo collection into a typed slice.
func decodeAll[T any](ctx context.Context, coll *mongo.Collection) ([]T, error) {
	cursor, err := coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []T
	for cursor.Next(ctx) {
		var doc T
		if err := cursor.Decode(&doc); err != nil {
			slog.Warn("Skipping undecodable document", slog.Any("error", err))
			continue
		}
		out = append(out, doc)
	}
	return out, cursor.Err()
}

func (m *Migrator) pause() {
	if m.sleepBetween > 0 {
		time.Sleep(m.sleepBetween)
	}
}

func (m *Migrator) report() {
	total := time.Since(m.stats.StartTime)
	for name, stats := range m.stats.Tables {
		slog.Info("Migration table summary",
			slog.String("table", name),
			slog.Int("read", stats.Read),
			slog.Int("written", stats.Written),
			slog.Int("skipped", stats.Skipped),
			slog.Int("failed", stats.Failed),
			slog.Duration("took", stats.Duration))
	}
	slog.Info("Migration complete", slog.Duration("total", total))
}
