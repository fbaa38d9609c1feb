package usecases

import (
	"errors"
	"strings"
	"testing"

	"github.com/abelzeko/aquarium-bot/internal/integration"
	"github.com/abelzeko/aquarium-bot/internal/repository"
)

func newTestLibrary(t *testing.T) *LibraryUseCase {
	t.Helper()
	return NewLibraryUseCase(newTestRepository(t), integration.NewArticleRenderer())
}

func TestSpeciesQuery(t *testing.T) {
	uc := newTestLibrary(t)

	tests := []struct {
		query string
		count int
	}{
		{"", 6},
		{"Beginner", 3},
		{"advanced", 1},
		{"tetra", 1},
		{"astronotus", 1},
		{"shark", 0},
		{"Peaceful", 3},
		{"aggressive", 2},
		{"semi-aggressive", 1},
		{"beginner peaceful", 2},
		{"aggressive intermediate", 1},
		{"%", 0},
		{"_", 0},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, err := uc.Species(tt.query)
			if err != nil {
				t.Fatalf("Species failed: %v", err)
			}
			if len(got) != tt.count {
				t.Errorf("Species(%q) returned %d entries, want %d", tt.query, len(got), tt.count)
			}
		})
	}
}

func TestFormatSpeciesAgainstSession(t *testing.T) {
	uc := newTestLibrary(t)

	betta, err := uc.Fish("betta fish")
	if err != nil {
		t.Fatalf("Fish failed: %v", err)
	}
	text := FormatSpecies(betta, *defaultSession())
	if !strings.Contains(text, "Not suited") || !strings.Contains(text, "temperature 75°F outside 76-82") {
		t.Errorf("Expected a temperature mismatch for betta, got:\n%s", text)
	}

	guppy, err := uc.Fish("Guppy")
	if err != nil {
		t.Fatalf("Fish failed: %v", err)
	}
	if text := FormatSpecies(guppy, *defaultSession()); !strings.Contains(text, "suit this species") {
		t.Errorf("Expected guppy to suit the default tank, got:\n%s", text)
	}

	if _, err := uc.Fish("Kraken"); !errors.Is(err, repository.ErrSpeciesMissing) {
		t.Errorf("Expected ErrSpeciesMissing, got %v", err)
	}
}

func TestArticleLibrary(t *testing.T) {
	uc := newTestLibrary(t)

	articles, err := uc.Articles("Health")
	if err != nil {
		t.Fatalf("Articles failed: %v", err)
	}
	categories, err := uc.Categories()
	if err != nil {
		t.Fatalf("Categories failed: %v", err)
	}
	list := FormatArticleList(articles, categories)
	if !strings.Contains(list, "5. Common Fish Diseases and Treatments") || !strings.Contains(list, "Categories: Water Chemistry") {
		t.Errorf("Unexpected article list:\n%s", list)
	}

	text, err := uc.Article(1)
	if err != nil {
		t.Fatalf("Article failed: %v", err)
	}
	if !strings.HasPrefix(text, "📖 Understanding the Nitrogen Cycle") || strings.Contains(text, "<h3>") {
		t.Errorf("Expected rendered plain text, got:\n%s", text)
	}

	if _, err := uc.Article(42); !errors.Is(err, repository.ErrArticleMissing) {
		t.Errorf("Expected ErrArticleMissing, got %v", err)
	}
}
