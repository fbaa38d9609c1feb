// Package repository provides data access implementations
package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/abelzeko/aquarium-bot/internal/entities"
)

var (
	ErrTaskNotFound   = errors.New("task not found")
	ErrAmbiguousID    = errors.New("task id prefix matches more than one task")
	ErrSpeciesMissing = errors.New("species not found")
	ErrArticleMissing = errors.New("article not found")
)

// SpeciesFilter narrows the species table. Empty fields match everything.
type SpeciesFilter struct {
	Difficulty  string
	Temperament string
	Search      string // name or scientific name substring
}

// AquariumRepository defines the data access operations used by the bot
type AquariumRepository interface {
	ListSpecies(filter SpeciesFilter) ([]entities.FishSpecies, error)
	GetSpeciesByName(name string) (entities.FishSpecies, error)
	ListArticles(category string) ([]entities.Article, error)
	ListArticleCategories() ([]string, error)
	GetArticle(id int64) (entities.Article, error)
	SeedTasks(chatID int64, now time.Time) (bool, error)
	ListTasks(chatID int64) ([]entities.MaintenanceTask, error)
	AddTask(task entities.MaintenanceTask) (entities.MaintenanceTask, error)
	CompleteTask(chatID int64, idPrefix string, now time.Time) (entities.MaintenanceTask, error)
	DeleteTask(chatID int64, idPrefix string) (entities.MaintenanceTask, error)
	ReopenDueTasks(now time.Time) (int64, error)
	ListChatsWithTasks() ([]int64, error)
	Close() error
}

// SQLiteAquariumRepository implements AquariumRepository on an in-memory SQLite database.
// Nothing is written to disk; the catalogue is re-seeded on every start.
type SQLiteAquariumRepository struct {
	db      *sql.DB
	catalog *Catalog
}

const schemaSQL = `
	CREATE TABLE species (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		scientific_name TEXT NOT NULL,
		size TEXT,
		temperament TEXT,
		ph_min REAL, ph_max REAL,
		temp_min REAL, temp_max REAL,
		hardness_min REAL, hardness_max REAL,
		difficulty TEXT,
		tank_size TEXT,
		diet TEXT,
		lifespan TEXT,
		origin TEXT,
		image TEXT,
		description TEXT,
		compatibility TEXT
	);
	CREATE TABLE articles (
		id INTEGER PRIMARY KEY,
		title TEXT NOT NULL,
		category TEXT NOT NULL,
		difficulty TEXT,
		read_time INTEGER,
		content TEXT,
		tips TEXT,
		warnings TEXT
	);
	CREATE TABLE tasks (
		id TEXT PRIMARY KEY,
		chat_id INTEGER NOT NULL,
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		frequency TEXT NOT NULL,
		priority TEXT NOT NULL,
		category TEXT NOT NULL,
		estimated_duration INTEGER,
		last_completed INTEGER NOT NULL DEFAULT 0,
		next_due INTEGER NOT NULL DEFAULT 0,
		is_completed INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX idx_tasks_chat ON tasks(chat_id);
	CREATE TABLE seeded_chats (
		chat_id INTEGER PRIMARY KEY
	);`

// NewSQLiteAquariumRepository creates the in-memory database and loads the embedded catalogue
func NewSQLiteAquariumRepository() (*SQLiteAquariumRepository, error) {
	catalog, err := DefaultCatalog()
	if err != nil {
		return nil, err
	}
	return NewSQLiteAquariumRepositoryWithCatalog(catalog)
}

// NewSQLiteAquariumRepositoryWithCatalog is NewSQLiteAquariumRepository with a caller-supplied catalogue
func NewSQLiteAquariumRepositoryWithCatalog(catalog *Catalog) (*SQLiteAquariumRepository, error) {
	log.Printf("Opening in-memory catalog database")
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// every new connection would get its own empty :memory: database
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	r := &SQLiteAquariumRepository{db: db, catalog: catalog}
	if err := r.seedCatalog(); err != nil {
		db.Close()
		return nil, err
	}
	return r, nil
}

// Close closes the database connection
func (r *SQLiteAquariumRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteAquariumRepository) seedCatalog() error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	speciesStmt, err := tx.Prepare(`
		INSERT INTO species(id, name, scientific_name, size, temperament,
			ph_min, ph_max, temp_min, temp_max, hardness_min, hardness_max,
			difficulty, tank_size, diet, lifespan, origin, image, description, compatibility)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer speciesStmt.Close()

	for _, f := range r.catalog.Species {
		_, err := speciesStmt.Exec(
			f.ID, f.Name, f.ScientificName, f.Size, f.Temperament,
			f.PH.Min, f.PH.Max, f.Temperature.Min, f.Temperature.Max, f.Hardness.Min, f.Hardness.Max,
			f.Difficulty, f.TankSize, f.Diet, f.Lifespan, f.Origin, f.Image, f.Description,
			joinList(f.Compatibility),
		)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert species %s: %w", f.Name, err)
		}
	}

	articleStmt, err := tx.Prepare(`
		INSERT INTO articles(id, title, category, difficulty, read_time, content, tips, warnings)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer articleStmt.Close()

	for _, a := range r.catalog.Articles {
		_, err := articleStmt.Exec(a.ID, a.Title, a.Category, a.Difficulty, a.ReadTime, a.Content,
			joinList(a.Tips), joinList(a.Warnings))
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert article %d: %w", a.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Printf("Seeded catalog with %d species and %d articles", len(r.catalog.Species), len(r.catalog.Articles))
	return nil
}

// ListSpecies returns the species matching the filter ordered by name
func (r *SQLiteAquariumRepository) ListSpecies(filter SpeciesFilter) ([]entities.FishSpecies, error) {
	query := `
		SELECT ` + speciesColumns + `
		FROM species
		WHERE (? = '' OR lower(difficulty) = lower(?))
		  AND (? = '' OR lower(temperament) LIKE lower(?) || '%' ESCAPE '\')
		  AND (? = '' OR lower(name) LIKE '%' || lower(?) || '%' ESCAPE '\'
		       OR lower(scientific_name) LIKE '%' || lower(?) || '%' ESCAPE '\')
		ORDER BY name`

	temperament := escapeLike(filter.Temperament)
	search := escapeLike(filter.Search)
	rows, err := r.db.Query(query,
		filter.Difficulty, filter.Difficulty,
		temperament, temperament,
		search, search, search,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query species: %w", err)
	}
	defer rows.Close()

	var result []entities.FishSpecies
	for rows.Next() {
		f, err := scanSpecies(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during row iteration: %w", err)
	}

	return result, nil
}

// GetSpeciesByName looks up a species by common or scientific name, case-insensitively
func (r *SQLiteAquariumRepository) GetSpeciesByName(name string) (entities.FishSpecies, error) {
	row := r.db.QueryRow(`
		SELECT `+speciesColumns+`
		FROM species
		WHERE lower(name) = lower(?) OR lower(scientific_name) = lower(?)`,
		strings.TrimSpace(name), strings.TrimSpace(name))

	f, err := scanSpecies(row)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.FishSpecies{}, ErrSpeciesMissing
	}
	return f, err
}

const speciesColumns = `id, name, scientific_name, size, temperament,
	ph_min, ph_max, temp_min, temp_max, hardness_min, hardness_max,
	difficulty, tank_size, diet, lifespan, origin, image, description, compatibility`

type scanner interface {
	Scan(dest ...any) error
}

func scanSpecies(s scanner) (entities.FishSpecies, error) {
	var f entities.FishSpecies
	var compat string
	err := s.Scan(
		&f.ID, &f.Name, &f.ScientificName, &f.Size, &f.Temperament,
		&f.PH.Min, &f.PH.Max, &f.Temperature.Min, &f.Temperature.Max, &f.Hardness.Min, &f.Hardness.Max,
		&f.Difficulty, &f.TankSize, &f.Diet, &f.Lifespan, &f.Origin, &f.Image, &f.Description, &compat,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return f, err
		}
		return f, fmt.Errorf("failed to scan species: %w", err)
	}
	f.Compatibility = splitList(compat)
	return f, nil
}

// ListArticles returns the articles in a category, or all when category is empty
func (r *SQLiteAquariumRepository) ListArticles(category string) ([]entities.Article, error) {
	rows, err := r.db.Query(`
		SELECT `+articleColumns+`
		FROM articles
		WHERE (? = '' OR lower(category) = lower(?))
		ORDER BY id`, category, category)
	if err != nil {
		return nil, fmt.Errorf("failed to query articles: %w", err)
	}
	defer rows.Close()

	var result []entities.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during row iteration: %w", err)
	}

	return result, nil
}

// ListArticleCategories returns the distinct article categories in first-seen order
func (r *SQLiteAquariumRepository) ListArticleCategories() ([]string, error) {
	rows, err := r.db.Query(`SELECT category FROM articles GROUP BY category ORDER BY MIN(id)`)
	if err != nil {
		return nil, fmt.Errorf("failed to query article categories: %w", err)
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during row iteration: %w", err)
	}

	return categories, nil
}

// GetArticle returns a single article
func (r *SQLiteAquariumRepository) GetArticle(id int64) (entities.Article, error) {
	a, err := scanArticle(r.db.QueryRow(`SELECT `+articleColumns+` FROM articles WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return entities.Article{}, ErrArticleMissing
	}
	return a, err
}

const articleColumns = `id, title, category, difficulty, read_time, content, tips, warnings`

func scanArticle(s scanner) (entities.Article, error) {
	var a entities.Article
	var tips, warnings string
	if err := s.Scan(&a.ID, &a.Title, &a.Category, &a.Difficulty, &a.ReadTime, &a.Content, &tips, &warnings); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return a, err
		}
		return a, fmt.Errorf("failed to scan article: %w", err)
	}
	a.Tips = splitList(tips)
	a.Warnings = splitList(warnings)
	return a, nil
}

// SeedTasks gives a chat the default task list the first time it is called for that chat.
// It reports whether tasks were inserted.
func (r *SQLiteAquariumRepository) SeedTasks(chatID int64, now time.Time) (bool, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}

	res, err := tx.Exec(`INSERT OR IGNORE INTO seeded_chats(chat_id) VALUES(?)`, chatID)
	if err != nil {
		tx.Rollback()
		return false, fmt.Errorf("failed to mark chat %d as seeded: %w", chatID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		tx.Rollback()
		return false, nil
	}

	for _, t := range r.catalog.Tasks {
		task := entities.MaintenanceTask{
			ID:                uuid.NewString(),
			ChatID:            chatID,
			Title:             t.Title,
			Description:       t.Description,
			Frequency:         t.Frequency,
			Priority:          t.Priority,
			Category:          t.Category,
			EstimatedDuration: t.EstimatedDuration,
			LastCompleted:     now.AddDate(0, 0, -t.LastCompletedDaysAgo),
			NextDue:           now.AddDate(0, 0, t.NextDueInDays),
		}
		if err := insertTask(tx, task); err != nil {
			tx.Rollback()
			return false, err
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Printf("Seeded %d default tasks for chat %d", len(r.catalog.Tasks), chatID)
	return true, nil
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func insertTask(e execer, t entities.MaintenanceTask) error {
	_, err := e.Exec(`
		INSERT INTO tasks(id, chat_id, title, description, frequency, priority, category,
			estimated_duration, last_completed, next_due, is_completed)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.ChatID, t.Title, t.Description, string(t.Frequency), string(t.Priority), string(t.Category),
		t.EstimatedDuration, toUnix(t.LastCompleted), toUnix(t.NextDue), t.IsCompleted,
	)
	if err != nil {
		return fmt.Errorf("failed to insert task %q: %w", t.Title, err)
	}
	return nil
}

// ListTasks returns a chat's tasks ordered by due date
func (r *SQLiteAquariumRepository) ListTasks(chatID int64) ([]entities.MaintenanceTask, error) {
	rows, err := r.db.Query(`
		SELECT `+taskColumns+`
		FROM tasks
		WHERE chat_id = ?
		ORDER BY next_due, title`, chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks for chat %d: %w", chatID, err)
	}
	defer rows.Close()

	var result []entities.MaintenanceTask
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during row iteration: %w", err)
	}

	return result, nil
}

// AddTask stores a new task, assigning it an id
func (r *SQLiteAquariumRepository) AddTask(task entities.MaintenanceTask) (entities.MaintenanceTask, error) {
	task.ID = uuid.NewString()
	if err := insertTask(r.db, task); err != nil {
		return entities.MaintenanceTask{}, err
	}
	return task, nil
}

// CompleteTask marks a task done at now and schedules its next occurrence
func (r *SQLiteAquariumRepository) CompleteTask(chatID int64, idPrefix string, now time.Time) (entities.MaintenanceTask, error) {
	task, err := r.findTask(chatID, idPrefix)
	if err != nil {
		return entities.MaintenanceTask{}, err
	}

	task.IsCompleted = true
	task.LastCompleted = now
	task.NextDue = task.Frequency.Next(now)

	_, err = r.db.Exec(`UPDATE tasks SET is_completed = 1, last_completed = ?, next_due = ? WHERE id = ?`,
		toUnix(task.LastCompleted), toUnix(task.NextDue), task.ID)
	if err != nil {
		return entities.MaintenanceTask{}, fmt.Errorf("failed to complete task %s: %w", task.ID, err)
	}
	return task, nil
}

// DeleteTask removes a task and returns what was removed
func (r *SQLiteAquariumRepository) DeleteTask(chatID int64, idPrefix string) (entities.MaintenanceTask, error) {
	task, err := r.findTask(chatID, idPrefix)
	if err != nil {
		return entities.MaintenanceTask{}, err
	}
	if _, err := r.db.Exec(`DELETE FROM tasks WHERE id = ?`, task.ID); err != nil {
		return entities.MaintenanceTask{}, fmt.Errorf("failed to delete task %s: %w", task.ID, err)
	}
	return task, nil
}

// ReopenDueTasks clears the completed flag of tasks whose next occurrence has arrived
func (r *SQLiteAquariumRepository) ReopenDueTasks(now time.Time) (int64, error) {
	res, err := r.db.Exec(`UPDATE tasks SET is_completed = 0 WHERE is_completed = 1 AND next_due <= ?`, toUnix(now))
	if err != nil {
		return 0, fmt.Errorf("failed to reopen tasks: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// ListChatsWithTasks returns every chat owning at least one task
func (r *SQLiteAquariumRepository) ListChatsWithTasks() ([]int64, error) {
	rows, err := r.db.Query(`SELECT DISTINCT chat_id FROM tasks ORDER BY chat_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query chats: %w", err)
	}
	defer rows.Close()

	var chats []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		chats = append(chats, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during row iteration: %w", err)
	}

	return chats, nil
}

func (r *SQLiteAquariumRepository) findTask(chatID int64, idPrefix string) (entities.MaintenanceTask, error) {
	idPrefix = strings.ToLower(strings.TrimSpace(idPrefix))
	if idPrefix == "" || strings.ContainsAny(idPrefix, "%_") {
		return entities.MaintenanceTask{}, ErrTaskNotFound
	}

	rows, err := r.db.Query(`
		SELECT `+taskColumns+`
		FROM tasks
		WHERE chat_id = ? AND id LIKE ? || '%'
		LIMIT 2`, chatID, idPrefix)
	if err != nil {
		return entities.MaintenanceTask{}, fmt.Errorf("failed to query task %s: %w", idPrefix, err)
	}
	defer rows.Close()

	var found []entities.MaintenanceTask
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return entities.MaintenanceTask{}, err
		}
		found = append(found, t)
	}
	if err := rows.Err(); err != nil {
		return entities.MaintenanceTask{}, fmt.Errorf("error during row iteration: %w", err)
	}

	switch len(found) {
	case 0:
		return entities.MaintenanceTask{}, ErrTaskNotFound
	case 1:
		return found[0], nil
	default:
		return entities.MaintenanceTask{}, ErrAmbiguousID
	}
}

const taskColumns = `id, chat_id, title, description, frequency, priority, category,
	estimated_duration, last_completed, next_due, is_completed`

func scanTask(s scanner) (entities.MaintenanceTask, error) {
	var t entities.MaintenanceTask
	var freq, prio, cat string
	var last, next int64
	err := s.Scan(&t.ID, &t.ChatID, &t.Title, &t.Description, &freq, &prio, &cat,
		&t.EstimatedDuration, &last, &next, &t.IsCompleted)
	if err != nil {
		return t, fmt.Errorf("failed to scan task: %w", err)
	}
	t.Frequency = entities.Frequency(freq)
	t.Priority = entities.Priority(prio)
	t.Category = entities.Category(cat)
	t.LastCompleted = fromUnix(last)
	t.NextDue = fromUnix(next)
	return t, nil
}

func toUnix(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}

func fromUnix(s int64) time.Time {
	if s == 0 {
		return time.Time{}
	}
	return time.Unix(s, 0)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes user text match literally inside a LIKE pattern
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func joinList(items []string) string {
	return strings.Join(items, "\n")
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
