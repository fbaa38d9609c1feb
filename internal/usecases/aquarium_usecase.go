// Package usecases contains the application's business logic
package usecases

import (
	"errors"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/abelzeko/aquarium-bot/internal/calculator"
	"github.com/abelzeko/aquarium-bot/internal/entities"
	"github.com/abelzeko/aquarium-bot/internal/integration/openai"
	"github.com/abelzeko/aquarium-bot/internal/metrics"
	"github.com/abelzeko/aquarium-bot/internal/repository"
)

var (
	// ErrNotAdjustable is returned when a target is set for a parameter the advisor does not adjust
	ErrNotAdjustable = errors.New("only pH and temperature targets can be set")
	ErrNotFinite     = errors.New("value must be a finite number")
)

// Session is the calculator state of one chat
type Session struct {
	Tank       entities.TankGeometry
	Readings   map[string]float64 // by parameter key
	TargetPH   float64
	TargetTemp float64
}

func defaultSession() *Session {
	return &Session{
		Tank: entities.DefaultTank(),
		Readings: map[string]float64{
			"ph":      7.0,
			"temp":    75,
			"ammonia": 0.1,
			"nitrite": 0.05,
			"nitrate": 20,
			"gh":      8,
		},
		TargetPH:   7.2,
		TargetTemp: 78,
	}
}

func (s *Session) clone() Session {
	c := *s
	c.Readings = make(map[string]float64, len(s.Readings))
	for k, v := range s.Readings {
		c.Readings[k] = v
	}
	return c
}

// AdjustmentTarget collects the session values the dosage advisor needs
func (s Session) AdjustmentTarget() entities.AdjustmentTarget {
	return entities.AdjustmentTarget{
		CurrentPH:      s.Readings["ph"],
		TargetPH:       s.TargetPH,
		CurrentTemp:    s.Readings["temp"],
		TargetTemp:     s.TargetTemp,
		CurrentAmmonia: s.Readings["ammonia"],
		CurrentNitrite: s.Readings["nitrite"],
		CurrentNitrate: s.Readings["nitrate"],
	}
}

// ReadingResult is a classified reading with the alert text to show for dangerous values
type ReadingResult struct {
	Parameter entities.Parameter
	Reading   entities.WaterReading
	Status    entities.Status
	Alert     string
}

// AquariumUseCase handles the calculator and dashboard for each chat
type AquariumUseCase struct {
	mu            sync.RWMutex
	sessions      map[int64]*Session
	repo          repository.AquariumRepository
	openAIService openai.OpenAIService
	metrics       *metrics.Metrics
}

// NewAquariumUseCase creates a new aquarium use case. openAIService and m may be nil.
func NewAquariumUseCase(repo repository.AquariumRepository, openAIService openai.OpenAIService, m *metrics.Metrics) *AquariumUseCase {
	return &AquariumUseCase{
		sessions:      make(map[int64]*Session),
		repo:          repo,
		openAIService: openAIService,
		metrics:       m,
	}
}

// Session returns a copy of the chat's session, creating the default one on first use
func (uc *AquariumUseCase) Session(chatID int64) Session {
	uc.mu.RLock()
	s, ok := uc.sessions[chatID]
	if ok {
		c := s.clone()
		uc.mu.RUnlock()
		return c
	}
	uc.mu.RUnlock()

	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.sessionLocked(chatID).clone()
}

// sessionLocked must be called with mu held for writing
func (uc *AquariumUseCase) sessionLocked(chatID int64) *Session {
	s, ok := uc.sessions[chatID]
	if !ok {
		log.Printf("Creating default session for chat %d", chatID)
		s = defaultSession()
		uc.sessions[chatID] = s
	}
	return s
}

// SetTank stores the chat's tank if its dimensions are valid and returns the volume in gallons
func (uc *AquariumUseCase) SetTank(chatID int64, g entities.TankGeometry) (float64, error) {
	volume, err := calculator.TankVolumeGallons(g)
	uc.metrics.Calculated("volume")
	if err != nil {
		return 0, err
	}

	uc.mu.Lock()
	uc.sessionLocked(chatID).Tank = g
	uc.mu.Unlock()

	log.Printf("Chat %d set tank %s (%.1f gallons)", chatID, g, volume)
	return volume, nil
}

// TankVolume returns the volume of the chat's current tank
func (uc *AquariumUseCase) TankVolume(chatID int64) (entities.TankGeometry, float64, error) {
	s := uc.Session(chatID)
	volume, err := calculator.TankVolumeGallons(s.Tank)
	uc.metrics.Calculated("volume")
	return s.Tank, volume, err
}

// SetReading records a measurement and classifies it against the parameter's optimal range
func (uc *AquariumUseCase) SetReading(chatID int64, parameter string, value float64) (ReadingResult, error) {
	p, err := entities.LookupParameter(parameter)
	if err != nil {
		return ReadingResult{}, err
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return ReadingResult{}, ErrNotFinite
	}

	uc.mu.Lock()
	uc.sessionLocked(chatID).Readings[p.Key] = value
	uc.mu.Unlock()

	res := classify(p, value)
	uc.metrics.Calculated("status")
	if res.Status == entities.StatusDanger {
		uc.metrics.DangerAlert(p.Name)
		log.Printf("Chat %d reported dangerous %s: %g", chatID, p.Name, value)
	}
	return res, nil
}

func classify(p entities.Parameter, value float64) ReadingResult {
	reading := p.Reading(value)
	res := ReadingResult{
		Parameter: p,
		Reading:   reading,
		Status:    calculator.ClassifyReading(reading),
	}
	if res.Status == entities.StatusDanger {
		res.Alert = fmt.Sprintf("⚠️ %s is at dangerous levels! Current: %s%s", p.Name, num(value), p.Unit)
	}
	return res
}

// SetTarget sets the desired pH or temperature used by the report
func (uc *AquariumUseCase) SetTarget(chatID int64, parameter string, value float64) (entities.Parameter, error) {
	p, err := entities.LookupParameter(parameter)
	if err != nil {
		return entities.Parameter{}, err
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return entities.Parameter{}, ErrNotFinite
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()
	s := uc.sessionLocked(chatID)
	switch p.Key {
	case "ph":
		s.TargetPH = value
	case "temp":
		s.TargetTemp = value
	default:
		return entities.Parameter{}, ErrNotAdjustable
	}
	return p, nil
}

// Dashboard classifies every current reading of the chat in display order
func (uc *AquariumUseCase) Dashboard(chatID int64) []ReadingResult {
	s := uc.Session(chatID)
	results := make([]ReadingResult, 0, len(entities.Parameters))
	for _, p := range entities.Parameters {
		results = append(results, classify(p, s.Readings[p.Key]))
	}
	uc.metrics.Calculated("dashboard")
	return results
}

// Report runs the dosage advisor on the chat's session
func (uc *AquariumUseCase) Report(chatID int64) (entities.Report, error) {
	s := uc.Session(chatID)
	report, err := calculator.Advise(s.Tank, s.AdjustmentTarget())
	uc.metrics.Calculated("report")
	if err != nil {
		return entities.Report{}, fmt.Errorf("failed to generate report: %w", err)
	}
	log.Printf("Generated report for chat %d: %.1f gallon tank", chatID, report.VolumeGallons)
	return report, nil
}

// SuitableSpecies returns the species whose ranges include the chat's pH, temperature and hardness
func (uc *AquariumUseCase) SuitableSpecies(chatID int64) ([]entities.FishSpecies, error) {
	s := uc.Session(chatID)
	all, err := uc.repo.ListSpecies(repository.SpeciesFilter{})
	if err != nil {
		return nil, err
	}

	var suitable []entities.FishSpecies
	for _, f := range all {
		if len(f.Mismatches(s.Readings["ph"], s.Readings["temp"], s.Readings["gh"])) == 0 {
			suitable = append(suitable, f)
		}
	}
	return suitable, nil
}

// FormatVolume formats a tank volume for display
func FormatVolume(g entities.TankGeometry, gallons float64) string {
	return fmt.Sprintf("🐟 Tank %s holds %.1f gallons (%.1f L)", g, gallons, calculator.LitersFromGallons(gallons))
}

// FormatReading formats a single classified reading
func FormatReading(r ReadingResult) string {
	line := fmt.Sprintf("%s %s: %s%s (%s, optimal %s-%s)",
		r.Status.Emoji(), r.Parameter.Name, num(r.Reading.Value), r.Parameter.Unit,
		strings.ToUpper(string(r.Status)), num(r.Reading.OptimalMin), num(r.Reading.OptimalMax))
	if r.Alert != "" {
		line += "\n" + r.Alert
	}
	return line
}

// FormatDashboard formats every reading of a dashboard
func FormatDashboard(results []ReadingResult) string {
	var result strings.Builder
	result.WriteString("🌊 Water Parameter Dashboard\n\n")
	for _, r := range results {
		result.WriteString(fmt.Sprintf("%s %s: %s%s (%s)\n",
			r.Status.Emoji(), r.Parameter.Name, num(r.Reading.Value), r.Parameter.Unit, strings.ToUpper(string(r.Status))))
	}
	result.WriteString("\nUse /set [parameter] [value] to record a new reading.")
	return result.String()
}

// FormatRecommendation formats a pH or temperature recommendation
func FormatRecommendation(title string, r entities.Recommendation) string {
	var result strings.Builder
	result.WriteString(fmt.Sprintf("%s\nAction: %s\n", title, r.Action))
	if r.NeedsAction() {
		if r.Unit == "hours" {
			result.WriteString(fmt.Sprintf("Time: %s hours\n", num(r.Amount)))
		} else {
			result.WriteString(fmt.Sprintf("Amount: %s %s\n", num(r.Amount), r.Unit))
		}
	}
	if r.Warning != "" {
		result.WriteString(fmt.Sprintf("⚠️ %s\n", r.Warning))
	}
	return result.String()
}

// FormatWaterChange formats a water change recommendation
func FormatWaterChange(wc entities.WaterChange) string {
	return fmt.Sprintf("💧 Water Change:\nPercentage: %s%%\nAmount: %s gallons\nReason: %s\n",
		num(wc.Percentage), num(wc.Amount), wc.Detail)
}

// FormatReport formats a full recommendation report
func FormatReport(r entities.Report) string {
	var result strings.Builder
	result.WriteString(fmt.Sprintf("📊 Water parameter report for %.1f gallon (%.1f L) tank\n\n", r.VolumeGallons, r.VolumeLiters))
	result.WriteString(FormatRecommendation("🧪 pH Adjustment:", r.PH))
	result.WriteString("\n")
	result.WriteString(FormatRecommendation("🌡️ Temperature Adjustment:", r.Temperature))
	result.WriteString("\n")
	result.WriteString(FormatWaterChange(r.WaterChange))
	return strings.TrimRight(result.String(), "\n")
}

// num formats a number without trailing zeros
func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
