package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/abelzeko/aquarium-bot/internal/entities"
)

func newTestRepository(t *testing.T) *SQLiteAquariumRepository {
	t.Helper()
	repo, err := NewSQLiteAquariumRepository()
	if err != nil {
		t.Fatalf("Failed to initialize repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestDefaultCatalog(t *testing.T) {
	c, err := DefaultCatalog()
	if err != nil {
		t.Fatalf("Failed to load catalog: %v", err)
	}
	if len(c.Species) != 6 || len(c.Articles) != 6 || len(c.Tasks) != 6 {
		t.Errorf("Expected 6 species, articles and tasks, got %d, %d, %d", len(c.Species), len(c.Articles), len(c.Tasks))
	}
}

func TestLoadCatalogRejectsBadFrequency(t *testing.T) {
	_, err := LoadCatalog([]byte("tasks:\n- title: Feed\n  frequency: hourly\n"))
	if err == nil {
		t.Fatal("Expected an error for an unknown frequency")
	}
}

func TestListSpecies(t *testing.T) {
	repo := newTestRepository(t)

	tests := []struct {
		name   string
		filter SpeciesFilter
		want   []string
	}{
		{"all", SpeciesFilter{}, []string{"Angelfish", "Betta Fish", "Discus", "Guppy", "Neon Tetra", "Oscar"}},
		{"beginner", SpeciesFilter{Difficulty: "beginner"}, []string{"Betta Fish", "Guppy", "Neon Tetra"}},
		{"aggressive-prefix", SpeciesFilter{Temperament: "Aggressive"}, []string{"Betta Fish", "Oscar"}},
		{"search-scientific", SpeciesFilter{Search: "symphysodon"}, []string{"Discus"}},
		{"combined", SpeciesFilter{Difficulty: "Beginner", Temperament: "peaceful", Search: "tetra"}, []string{"Neon Tetra"}},
		{"no-match", SpeciesFilter{Search: "shark"}, nil},
		{"percent-literal", SpeciesFilter{Search: "%"}, nil},
		{"underscore-literal", SpeciesFilter{Search: "_"}, nil},
		{"temperament-wildcard", SpeciesFilter{Temperament: "%"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.ListSpecies(tt.filter)
			if err != nil {
				t.Fatalf("ListSpecies failed: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Expected %d species, got %d", len(tt.want), len(got))
			}
			for i, f := range got {
				if f.Name != tt.want[i] {
					t.Errorf("Entry %d: expected %s, got %s", i, tt.want[i], f.Name)
				}
			}
		})
	}
}

func TestGetSpeciesByName(t *testing.T) {
	repo := newTestRepository(t)

	neon, err := repo.GetSpeciesByName("neon tetra")
	if err != nil {
		t.Fatalf("GetSpeciesByName failed: %v", err)
	}
	if neon.ScientificName != "Paracheirodon innesi" || neon.PH.Max != 7.0 || len(neon.Compatibility) != 4 {
		t.Errorf("Unexpected species record: %+v", neon)
	}

	if _, err := repo.GetSpeciesByName("Megalodon"); !errors.Is(err, ErrSpeciesMissing) {
		t.Errorf("Expected ErrSpeciesMissing, got %v", err)
	}
}

func TestArticles(t *testing.T) {
	repo := newTestRepository(t)

	all, err := repo.ListArticles("")
	if err != nil {
		t.Fatalf("ListArticles failed: %v", err)
	}
	if len(all) != 6 {
		t.Errorf("Expected 6 articles, got %d", len(all))
	}

	chem, err := repo.ListArticles("water chemistry")
	if err != nil {
		t.Fatalf("ListArticles failed: %v", err)
	}
	if len(chem) != 2 {
		t.Errorf("Expected 2 water chemistry articles, got %d", len(chem))
	}

	categories, err := repo.ListArticleCategories()
	if err != nil {
		t.Fatalf("ListArticleCategories failed: %v", err)
	}
	want := []string{"Water Chemistry", "Fish Care", "Equipment", "Health", "Plants"}
	if len(categories) != len(want) {
		t.Fatalf("Expected categories %v, got %v", want, categories)
	}
	for i := range want {
		if categories[i] != want[i] {
			t.Errorf("Category %d: expected %s, got %s", i, want[i], categories[i])
		}
	}

	a, err := repo.GetArticle(1)
	if err != nil {
		t.Fatalf("GetArticle failed: %v", err)
	}
	if a.Title != "Understanding the Nitrogen Cycle" || len(a.Tips) != 4 || len(a.Warnings) != 3 {
		t.Errorf("Unexpected article: %s with %d tips and %d warnings", a.Title, len(a.Tips), len(a.Warnings))
	}

	if _, err := repo.GetArticle(99); !errors.Is(err, ErrArticleMissing) {
		t.Errorf("Expected ErrArticleMissing, got %v", err)
	}
}

func TestTaskLifecycle(t *testing.T) {
	repo := newTestRepository(t)
	now := time.Date(2025, time.April, 18, 8, 0, 0, 0, time.UTC)
	const chat = int64(42)

	seeded, err := repo.SeedTasks(chat, now)
	if err != nil || !seeded {
		t.Fatalf("Expected first seed to insert tasks, got %v, %v", seeded, err)
	}
	seeded, err = repo.SeedTasks(chat, now)
	if err != nil || seeded {
		t.Fatalf("Expected second seed to be a no-op, got %v, %v", seeded, err)
	}

	tasks, err := repo.ListTasks(chat)
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	if len(tasks) != 6 {
		t.Fatalf("Expected 6 tasks, got %d", len(tasks))
	}
	if tasks[0].Title != "Check Equipment" {
		t.Errorf("Expected the soonest task first, got %s", tasks[0].Title)
	}

	added, err := repo.AddTask(entities.MaintenanceTask{
		ChatID:      chat,
		Title:       "Feed Fry",
		Description: "Crushed flakes three times a day",
		Frequency:   entities.FrequencyDaily,
		Priority:    entities.PriorityHigh,
		Category:    entities.CategoryFeeding,
		NextDue:     now.Add(-time.Hour),
	})
	if err != nil {
		t.Fatalf("AddTask failed: %v", err)
	}
	if added.ID == "" {
		t.Fatal("Expected AddTask to assign an id")
	}

	done, err := repo.CompleteTask(chat, added.ShortID(), now)
	if err != nil {
		t.Fatalf("CompleteTask failed: %v", err)
	}
	if !done.IsCompleted || !done.NextDue.Equal(now.AddDate(0, 0, 1)) {
		t.Errorf("Unexpected completed task: %+v", done)
	}
	if done.StatusAt(now) != entities.TaskCompleted {
		t.Errorf("Expected completed status, got %s", done.StatusAt(now))
	}

	n, err := repo.ReopenDueTasks(now.Add(12 * time.Hour))
	if err != nil || n != 0 {
		t.Errorf("Expected nothing to reopen yet, got %d, %v", n, err)
	}
	n, err = repo.ReopenDueTasks(now.AddDate(0, 0, 1))
	if err != nil || n != 1 {
		t.Errorf("Expected one task reopened, got %d, %v", n, err)
	}

	if _, err := repo.CompleteTask(chat+1, added.ShortID(), now); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("Expected other chats not to see the task, got %v", err)
	}
	if _, err := repo.CompleteTask(chat, "%", now); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("Expected wildcard prefix to be rejected, got %v", err)
	}
	if _, err := repo.DeleteTask(chat, ""); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("Expected empty prefix to be rejected, got %v", err)
	}

	removed, err := repo.DeleteTask(chat, added.ID)
	if err != nil {
		t.Fatalf("DeleteTask failed: %v", err)
	}
	if removed.Title != "Feed Fry" {
		t.Errorf("Removed the wrong task: %s", removed.Title)
	}

	chats, err := repo.ListChatsWithTasks()
	if err != nil {
		t.Fatalf("ListChatsWithTasks failed: %v", err)
	}
	if len(chats) != 1 || chats[0] != chat {
		t.Errorf("Expected chat %d, got %v", chat, chats)
	}
}

func TestAmbiguousTaskPrefix(t *testing.T) {
	repo := newTestRepository(t)
	now := time.Now()

	for _, id := range []string{"aaaa1111-0000-4000-8000-000000000001", "aaaa2222-0000-4000-8000-000000000002"} {
		task := entities.MaintenanceTask{
			ID:          id,
			ChatID:      7,
			Title:       "Top Off " + id[:8],
			Description: "Replace evaporated water",
			Frequency:   entities.FrequencyWeekly,
			Priority:    entities.PriorityLow,
			Category:    entities.CategoryWater,
		}
		if err := insertTask(repo.db, task); err != nil {
			t.Fatalf("insertTask failed: %v", err)
		}
	}

	if _, err := repo.CompleteTask(7, "aaaa", now); !errors.Is(err, ErrAmbiguousID) {
		t.Errorf("Expected ErrAmbiguousID, got %v", err)
	}
	if _, err := repo.CompleteTask(7, "AAAA2", now); err != nil {
		t.Errorf("Expected unique prefix to resolve, got %v", err)
	}
}
