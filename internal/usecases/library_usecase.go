package usecases

import (
	"fmt"
	"log"
	"slices"
	"strings"

	"github.com/abelzeko/aquarium-bot/internal/entities"
	"github.com/abelzeko/aquarium-bot/internal/integration"
	"github.com/abelzeko/aquarium-bot/internal/repository"
)

var (
	difficulties = []string{"beginner", "intermediate", "advanced"}
	temperaments = []string{"peaceful", "semi-aggressive", "aggressive"}
)

// LibraryUseCase serves the species reference table and the article library
type LibraryUseCase struct {
	repo     repository.AquariumRepository
	renderer *integration.ArticleRenderer
}

// NewLibraryUseCase creates a new library use case
func NewLibraryUseCase(repo repository.AquariumRepository, renderer *integration.ArticleRenderer) *LibraryUseCase {
	return &LibraryUseCase{
		repo:     repo,
		renderer: renderer,
	}
}

// Species lists species. The query is a difficulty level and/or a temperament,
// or else a search term on the name.
func (uc *LibraryUseCase) Species(query string) ([]entities.FishSpecies, error) {
	query = strings.TrimSpace(query)
	if filter, ok := parseSpeciesFilter(query); ok {
		return uc.repo.ListSpecies(filter)
	}
	return uc.repo.ListSpecies(repository.SpeciesFilter{Search: query})
}

func parseSpeciesFilter(query string) (repository.SpeciesFilter, bool) {
	var filter repository.SpeciesFilter
	words := strings.Fields(strings.ToLower(query))
	if len(words) == 0 {
		return filter, false
	}
	for _, w := range words {
		switch {
		case filter.Difficulty == "" && slices.Contains(difficulties, w):
			filter.Difficulty = w
		case filter.Temperament == "" && slices.Contains(temperaments, w):
			filter.Temperament = w
		default:
			return repository.SpeciesFilter{}, false
		}
	}
	return filter, true
}

// Fish returns a single species by name
func (uc *LibraryUseCase) Fish(name string) (entities.FishSpecies, error) {
	return uc.repo.GetSpeciesByName(strings.TrimSpace(name))
}

// Articles lists the articles of a category, or all of them for an empty category
func (uc *LibraryUseCase) Articles(category string) ([]entities.Article, error) {
	return uc.repo.ListArticles(strings.TrimSpace(category))
}

// Categories lists the article categories
func (uc *LibraryUseCase) Categories() ([]string, error) {
	return uc.repo.ListArticleCategories()
}

// Article returns an article rendered for chat
func (uc *LibraryUseCase) Article(id int64) (string, error) {
	a, err := uc.repo.GetArticle(id)
	if err != nil {
		return "", err
	}
	log.Printf("Rendering article %d (%s)", a.ID, a.Title)
	return uc.renderer.RenderArticle(a), nil
}

// FormatSpeciesList formats the species table
func FormatSpeciesList(species []entities.FishSpecies) string {
	if len(species) == 0 {
		return "No species found. Try /species beginner or /species tetra."
	}

	var result strings.Builder
	result.WriteString("🐠 Fish Species\n\n")
	for _, f := range species {
		result.WriteString(fmt.Sprintf("%s (%s) · %s · %s\n", f.Name, f.ScientificName, f.Difficulty, f.Temperament))
		result.WriteString(fmt.Sprintf("   pH %s · %s°F · %s dGH · tank %s\n", f.PH, f.Temperature, f.Hardness, f.TankSize))
	}
	result.WriteString("\nUse /fish [name] for details.")
	return result.String()
}

// FormatSpecies formats a species profile, flagging conditions the chat's tank would not meet
func FormatSpecies(f entities.FishSpecies, session Session) string {
	var result strings.Builder
	result.WriteString(fmt.Sprintf("🐟 %s\n%s\n\n", f.Name, f.ScientificName))
	result.WriteString(fmt.Sprintf("Size: %s\nTemperament: %s\nDifficulty: %s\n", f.Size, f.Temperament, f.Difficulty))
	result.WriteString(fmt.Sprintf("pH: %s\nTemperature: %s°F\nHardness: %s dGH\n", f.PH, f.Temperature, f.Hardness))
	result.WriteString(fmt.Sprintf("Tank size: %s\nDiet: %s\nLifespan: %s\nOrigin: %s\n\n", f.TankSize, f.Diet, f.Lifespan, f.Origin))
	result.WriteString(f.Description + "\n")
	if len(f.Compatibility) > 0 {
		result.WriteString(fmt.Sprintf("\nCompatible with: %s\n", strings.Join(f.Compatibility, ", ")))
	}

	mismatches := f.Mismatches(session.Readings["ph"], session.Readings["temp"], session.Readings["gh"])
	if len(mismatches) == 0 {
		result.WriteString("\n✅ Your tank's current readings suit this species.")
	} else {
		result.WriteString("\n⚠️ Not suited to your tank right now:\n")
		for _, m := range mismatches {
			result.WriteString("• " + m + "\n")
		}
	}
	return strings.TrimRight(result.String(), "\n")
}

// FormatArticleList formats article headlines
func FormatArticleList(articles []entities.Article, categories []string) string {
	var result strings.Builder
	result.WriteString("📚 Articles\n\n")
	if len(articles) == 0 {
		result.WriteString("No articles in that category.\n")
	}
	for _, a := range articles {
		result.WriteString(fmt.Sprintf("%d. %s (%s, %s, %d min)\n", a.ID, a.Title, a.Category, a.Difficulty, a.ReadTime))
	}
	if len(categories) > 0 {
		result.WriteString(fmt.Sprintf("\nCategories: %s\n", strings.Join(categories, ", ")))
	}
	result.WriteString("Use /article [id] to read one.")
	return result.String()
}
