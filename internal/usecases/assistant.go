package usecases

import (
	"context"
	"log"
	"strings"

	"github.com/abelzeko/aquarium-bot/internal/calculator"
	"github.com/abelzeko/aquarium-bot/internal/entities"
	"github.com/abelzeko/aquarium-bot/internal/integration/openai"
)

const fallbackReply = "I don't understand. Use /help to see available commands."

// HandleNaturalLanguageQuery interprets a user's free-text query using the AI service
// and returns an appropriate response string.
func (uc *AquariumUseCase) HandleNaturalLanguageQuery(ctx context.Context, chatID int64, query string) (string, error) {
	if uc.openAIService == nil {
		return fallbackReply, nil
	}

	log.Printf("Interpreting natural language query: %s", query)
	agentResp, err := uc.openAIService.InterpretUserQuery(ctx, query)
	if err != nil {
		log.Printf("Error interpreting user query via OpenAI: %v", err)
		return "Sorry, I'm having trouble understanding right now. Please try again later or use /help.", nil
	}

	log.Printf("Agent response: Command='%s', Message='%s'", agentResp.CommandName, agentResp.UserMessage)
	return uc.dispatchAgentResponse(chatID, agentResp), nil
}

// dispatchAgentResponse runs the calculator command chosen by the agent
func (uc *AquariumUseCase) dispatchAgentResponse(chatID int64, resp *openai.AgentResponse) string {
	var body string

	switch resp.CommandName {
	case openai.CommandTankVolume:
		g := entities.TankGeometry{
			Length: resp.Length,
			Width:  resp.Width,
			Height: resp.Height,
			Unit:   entities.UnitImperial,
			Shape:  entities.ShapeRectangular,
		}
		if u, err := entities.ParseUnit(resp.Unit); err == nil {
			g.Unit = u
		}
		if s, err := entities.ParseShape(resp.Shape); err == nil {
			g.Shape = s
		}
		volume, err := uc.SetTank(chatID, g)
		if err != nil {
			body = "I need positive tank dimensions to work out the volume. Try /tank 24 12 16 in."
		} else {
			body = FormatVolume(g, volume)
		}

	case openai.CommandCheckParameter:
		res, err := uc.SetReading(chatID, resp.Parameter, resp.Value)
		if err != nil {
			body = "I couldn't tell which parameter you measured. Try /set ph 7.2."
		} else {
			body = FormatReading(res)
		}

	case openai.CommandAdjustPH:
		_, volume, err := uc.TankVolume(chatID)
		if err != nil {
			body = "Your tank dimensions are invalid. Set them with /tank first."
			break
		}
		uc.metrics.Calculated("ph")
		body = FormatRecommendation("🧪 pH Adjustment:", calculator.AdjustPH(resp.Current, resp.Target, volume))

	case openai.CommandAdjustTemperature:
		uc.metrics.Calculated("temperature")
		body = FormatRecommendation("🌡️ Temperature Adjustment:", calculator.AdjustTemperature(resp.Current, resp.Target))

	case openai.CommandWaterChange:
		_, volume, err := uc.TankVolume(chatID)
		if err != nil {
			body = "Your tank dimensions are invalid. Set them with /tank first."
			break
		}
		uc.metrics.Calculated("water_change")
		body = FormatWaterChange(calculator.SizeWaterChange(resp.Ammonia, resp.Nitrite, resp.Nitrate, volume))

	case openai.CommandReport:
		report, err := uc.Report(chatID)
		if err != nil {
			body = "Your tank dimensions are invalid. Set them with /tank first."
		} else {
			body = FormatReport(report)
		}

	case openai.CommandGeneralQuery:
		if resp.UserMessage == "" {
			return fallbackReply
		}
		return resp.UserMessage

	default:
		log.Printf("Agent returned unexpected command: %s", resp.CommandName)
		return "I'm not sure how to respond to that. You can use /help for commands."
	}

	if resp.UserMessage != "" {
		return resp.UserMessage + "\n\n" + strings.TrimRight(body, "\n")
	}
	return strings.TrimRight(body, "\n")
}
