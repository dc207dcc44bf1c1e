package external

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	defaultModel   = "gemini-2.5-flash"
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
)

// Candidate một kho đang hoạt động đưa cho mô hình chọn.
type Candidate struct {
	ID      string
	Address string
}

// FallbackResponse kết quả mô hình trả về. SelectedBranchID là id do mô hình
// chọn, caller phải tự đối chiếu lại với catalog.
type FallbackResponse struct {
	SelectedBranchID  string `json:"selectedBranchId"`
	EstimatedDistance string `json:"estimatedDistance"`
	Reasoning         string `json:"reasoning"`
}

// GeminiConfig cấu hình client gọi Gemini
type GeminiConfig struct {
	APIKey  string
	Model   string        // mặc định gemini-2.5-flash
	BaseURL string        // đổi được trong test
	Timeout time.Duration // timeout của http client, 0 = để context quyết định
}

// GeminiResolver gọi Gemini generateContent để chọn kho gần nhất theo
// khoảng cách ước lượng. Tầng này là hộp đen đối với phần còn lại của hệ
// thống: chỉ có contract request/response, không có gì để unit-test về
// chất lượng chọn kho.
type GeminiResolver struct {
	cfg    GeminiConfig
	client *http.Client
	logger *zap.Logger
}

func NewGeminiResolver(cfg GeminiConfig, logger *zap.Logger) *GeminiResolver {
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GeminiResolver{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

// generateContent request/response shapes của Gemini REST API
type geminiRequest struct {
	Contents         []geminiContent  `json:"contents"`
	GenerationConfig geminiGenConfig  `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenConfig struct {
	ResponseMimeType string           `json:"responseMimeType"`
	ResponseSchema   *geminiSchema    `json:"responseSchema,omitempty"`
}

type geminiSchema struct {
	Type       string                   `json:"type"`
	Properties map[string]geminiSchema2 `json:"properties,omitempty"`
}

type geminiSchema2 struct {
	Type string `json:"type"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Resolve hỏi mô hình kho nào gần địa chỉ khách nhất. Lỗi context
// (timeout/cancel) được trả nguyên để caller phân loại qua errors.Is.
func (r *GeminiResolver) Resolve(ctx context.Context, queryText string, candidates []Candidate) (*FallbackResponse, error) {
	prompt := r.buildPrompt(queryText, candidates)

	body := geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: geminiGenConfig{
			ResponseMimeType: "application/json",
			ResponseSchema: &geminiSchema{
				Type: "OBJECT",
				Properties: map[string]geminiSchema2{
					"selectedBranchId":  {Type: "STRING"},
					"estimatedDistance": {Type: "STRING"},
					"reasoning":         {Type: "STRING"},
				},
			},
		},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("lỗi marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", r.cfg.BaseURL, r.cfg.Model, r.cfg.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("lỗi tạo request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := r.client.Do(req)
	if err != nil {
		// giữ nguyên lỗi context để tầng trên phân biệt timeout/cancel
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("lỗi gọi Gemini: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("lỗi đọc response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		r.logger.Warn("Gemini trả mã lỗi",
			zap.Int("status", resp.StatusCode),
			zap.Duration("elapsed", time.Since(start)))
		return nil, fmt.Errorf("gemini trả status %d", resp.StatusCode)
	}

	var parsed geminiResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("lỗi parse response: %w", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("gemini không trả nội dung")
	}

	var result FallbackResponse
	text := parsed.Candidates[0].Content.Parts[0].Text
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		return nil, fmt.Errorf("lỗi parse JSON kết quả từ mô hình: %w", err)
	}

	r.logger.Debug("Gemini fallback hoàn thành",
		zap.String("selected_id", result.SelectedBranchID),
		zap.Duration("elapsed", time.Since(start)))

	return &result, nil
}

func (r *GeminiResolver) buildPrompt(queryText string, candidates []Candidate) string {
	var sb strings.Builder
	for _, c := range candidates {
		sb.WriteString(fmt.Sprintf("ID: %s | Address: %s\n", c.ID, c.Address))
	}

	return fmt.Sprintf(`
    Find the closest warehouse for: "%s"
    List:
    %s
    Instructions:
    1. Identify the location of the user address.
    2. Identify the location of each warehouse.
    3. Calculate approximated driving distance.
    4. Select the warehouse with the SHORTEST distance.
    5. VERY IMPORTANT: If the user provides a specific street address, prioritize physical proximity over name matching.

    Return JSON:
    {
      "selectedBranchId": "string",
      "estimatedDistance": "string",
      "reasoning": "string (Vietnamese)"
    }
  `, queryText, sb.String())
}
