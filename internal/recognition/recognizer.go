package recognition

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"eatup/internal/config"
	"eatup/internal/domain"

	"github.com/go-playground/validator/v10"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// systemPrompt asks the model for a single JSON object describing the main
// subject of the photo.
const systemPrompt = `你是一个谨慎的食品识别助手，请识别图片的主体部分，并返回符合以下 json schema 的输出，请谨慎判断。
食物的名称可能是各种水果、蔬菜、零食的名字，都是常见的东西。
当不确定时，food_name 填'不清楚'。
{"type":"object","properties":{"confidence":{"type":"number","title":"置信度","minimum":0,"maximum":1,"description":"食物名判断的可信程度，0~1 之间小数"},"expiry_days":{"type":"integer","title":"有效期","description":"食物的有效期，单位：天"},"food_name":{"type":"string","title":"食物名","description":"2~5 个字左右的食物名"}},"required":["confidence","expiry_days","food_name"]}`

var ErrEmptyImage = fmt.Errorf("%w: image is empty", domain.ErrValidation)

// Recognizer turns food photos into structured guesses using an
// OpenAI-compatible vision model.
type Recognizer struct {
	client   *openai.Client
	cfg      config.AIConfig
	validate *validator.Validate
	logger   *zap.Logger
}

// New creates a Recognizer from the AI configuration
func New(cfg config.AIConfig, logger *zap.Logger) *Recognizer {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}

	return &Recognizer{
		client:   openai.NewClientWithConfig(clientCfg),
		cfg:      cfg,
		validate: domain.NewValidator(),
		logger:   logger,
	}
}

// rawResult mirrors the JSON schema in the prompt. Pointers detect missing keys.
// expiry_days is decoded as a number so integral values written as 7.0 pass.
type rawResult struct {
	Confidence *float64 `json:"confidence"`
	ExpiryDays *float64 `json:"expiry_days"`
	FoodName   *string  `json:"food_name"`
}

// Recognize sends one chat completion request carrying the image and returns
// the validated result. Every failure after the request is sent is reported
// as domain.ErrUpstream.
func (r *Recognizer) Recognize(ctx context.Context, image []byte, mimeType string) (*domain.RecognitionResult, error) {
	if !domain.IsSupportedImage(mimeType) {
		return nil, domain.ErrUnsupportedImage
	}
	if len(image) == 0 {
		return nil, ErrEmptyImage
	}

	if r.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.Timeout)
		defer cancel()
	}

	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(image))

	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: r.cfg.Model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type:     openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{URL: dataURL},
					},
				},
			},
		},
	})
	if err != nil {
		return nil, r.upstreamError("recognition call failed", err)
	}

	if len(resp.Choices) == 0 {
		return nil, r.upstreamError("response has no choices", nil)
	}

	return r.parse(resp.Choices[0].Message.Content)
}

func (r *Recognizer) parse(content string) (*domain.RecognitionResult, error) {
	var raw rawResult
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, r.upstreamError("response is not valid JSON", err)
	}
	if raw.Confidence == nil || raw.ExpiryDays == nil || raw.FoodName == nil {
		return nil, r.upstreamError("response is missing required fields", nil)
	}

	days := *raw.ExpiryDays
	if days != math.Trunc(days) || math.Abs(days) > math.MaxInt32 {
		return nil, r.upstreamError("expiry_days is not an integer", nil)
	}

	result := &domain.RecognitionResult{
		Confidence: *raw.Confidence,
		ExpiryDays: int(days),
		FoodName:   strings.TrimSpace(*raw.FoodName),
	}
	result.ApplyFallback()

	if err := r.validate.Struct(result); err != nil {
		return nil, r.upstreamError("response does not match schema", err)
	}

	return result, nil
}

func (r *Recognizer) upstreamError(reason string, cause error) error {
	fields := []zap.Field{zap.String("model", r.cfg.Model), zap.String("reason", reason)}
	if cause != nil {
		fields = append(fields, zap.Error(cause))
	}
	var apiErr *openai.APIError
	if errors.As(cause, &apiErr) {
		fields = append(fields, zap.Int("status", apiErr.HTTPStatusCode))
	}
	r.logger.Error("Image recognition failed", fields...)

	return fmt.Errorf("%w: %s", domain.ErrUpstream, reason)
}
