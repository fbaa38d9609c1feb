package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Commands the agent may choose
const (
	CommandTankVolume        = "TankVolume"
	CommandCheckParameter    = "CheckParameter"
	CommandAdjustPH          = "AdjustPH"
	CommandAdjustTemperature = "AdjustTemperature"
	CommandWaterChange       = "WaterChange"
	CommandReport            = "Report"
	CommandGeneralQuery      = "GeneralQuery"
)

// AgentResponse defines the structured output from the OpenAI agent.
// Numeric fields the user did not mention are 0 and string fields are empty.
type AgentResponse struct {
	CommandName string  `json:"command_name" jsonschema_description:"One of TankVolume, CheckParameter, AdjustPH, AdjustTemperature, WaterChange, Report, GeneralQuery"`
	Parameter   string  `json:"parameter" jsonschema_description:"Water parameter for CheckParameter: ph, temp, ammonia, nitrite, nitrate or gh"`
	Value       float64 `json:"value" jsonschema_description:"Measured value for CheckParameter"`
	Current     float64 `json:"current" jsonschema_description:"Current pH or temperature (Fahrenheit) for AdjustPH/AdjustTemperature"`
	Target      float64 `json:"target" jsonschema_description:"Desired pH or temperature (Fahrenheit) for AdjustPH/AdjustTemperature"`
	Ammonia     float64 `json:"ammonia" jsonschema_description:"Ammonia in ppm for WaterChange"`
	Nitrite     float64 `json:"nitrite" jsonschema_description:"Nitrite in ppm for WaterChange"`
	Nitrate     float64 `json:"nitrate" jsonschema_description:"Nitrate in ppm for WaterChange"`
	Length      float64 `json:"length" jsonschema_description:"Tank length or diameter"`
	Width       float64 `json:"width" jsonschema_description:"Tank width"`
	Height      float64 `json:"height" jsonschema_description:"Tank height"`
	Unit        string  `json:"unit" jsonschema_description:"inches or centimeters"`
	Shape       string  `json:"shape" jsonschema_description:"rectangular, cylindrical or hexagonal"`
	UserMessage string  `json:"user_message" jsonschema_description:"A short message to show back to the user in their original language"`
}

// OpenAIService defines the interface for interacting with the OpenAI agent.
type OpenAIService interface {
	InterpretUserQuery(ctx context.Context, userMessage string) (*AgentResponse, error)
}

// openAIServiceImpl implements the OpenAIService interface.
type openAIServiceImpl struct {
	client openai.Client
	schema interface{}
}

// ErrMissingAPIKey is returned when no API key is configured
var ErrMissingAPIKey = errors.New("OPENAI_API_KEY not set")

// GenerateSchema generates a JSON schema for a given type.
func GenerateSchema[T any]() interface{} {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	schema := reflector.Reflect(v)
	return schema
}

// NewOpenAIService creates and initializes a new OpenAIService.
func NewOpenAIService(apiKey string, opts ...option.RequestOption) (OpenAIService, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	client := openai.NewClient(append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)...)
	schema := GenerateSchema[AgentResponse]()

	return &openAIServiceImpl{
		client: client,
		schema: schema,
	}, nil
}

const systemPrompt = `You are a friendly freshwater aquarium assistant. Your job is to turn a hobbyist's message into one calculator command.

Commands:
- TankVolume: the user wants to know how much water a tank holds. Fill length, width, height, unit and shape.
- CheckParameter: the user reports one measurement and wants to know if it is healthy. Fill parameter and value.
- AdjustPH: the user wants to move pH from current to target.
- AdjustTemperature: the user wants to move temperature from current to target. Convert Celsius to Fahrenheit.
- WaterChange: the user reports ammonia, nitrite and/or nitrate and asks how much water to change.
- Report: the user asks for a full recommendation for their tank.
- GeneralQuery: anything else, including general fish keeping questions. Answer briefly in user_message.

Rules:
- Reply in the user's language.
- Never invent measurements; leave unknown numbers at 0 and unknown strings empty.
- Output strictly in JSON.`

// InterpretUserQuery sends a message to the OpenAI agent and returns the structured response.
func (s *openAIServiceImpl) InterpretUserQuery(ctx context.Context, userMessage string) (*AgentResponse, error) {
	schemaParam := openai.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:        "agent_response",
		Description: openai.String("Structured calculator command extracted from the user's message"),
		Schema:      s.schema,
		Strict:      openai.Bool(true),
	}

	respFormat := openai.ChatCompletionNewParamsResponseFormatUnion{
		OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{JSONSchema: schemaParam},
	}

	chat, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userMessage),
		},
		ResponseFormat: respFormat,
		Model:          openai.ChatModelGPT4o,
	})

	if err != nil {
		return nil, fmt.Errorf("error calling OpenAI API: %w", err)
	}

	if len(chat.Choices) == 0 || chat.Choices[0].Message.Content == "" {
		return nil, errors.New("received empty response from OpenAI")
	}

	return ParseAgentResponse(chat.Choices[0].Message.Content)
}

// ParseAgentResponse decodes the JSON content produced by the model
func ParseAgentResponse(content string) (*AgentResponse, error) {
	var agentResp AgentResponse
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &agentResp); err != nil {
		log.Printf("Failed to unmarshal OpenAI response: %s\nRaw response: %s", err, content)
		return nil, fmt.Errorf("error unmarshalling OpenAI response: %w", err)
	}
	return &agentResp, nil
}
