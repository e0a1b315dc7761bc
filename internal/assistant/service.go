package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultPrompt = "Sen sorubank adli soru bankasi platformunun yardim asistanisin. Turkce, kisa ve net cevap ver. Soru iceri aktarma, deneme cozme, puanlama ve hesap sorunlarina odaklan."

type ServiceConfig struct {
	GeminiAPIKey string
	GeminiModel  string
	HTTPClient   *http.Client
}

type Service struct {
	geminiAPIKey string
	geminiModel  string
	client       *http.Client
}

type Result struct {
	Reply  string
	Source string
}

func NewService(cfg ServiceConfig) *Service {
	model := strings.TrimSpace(cfg.GeminiModel)
	if model == "" {
		model = "gemini-1.5-flash"
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 18 * time.Second}
	}
	return &Service{
		geminiAPIKey: strings.TrimSpace(cfg.GeminiAPIKey),
		geminiModel:  model,
		client:       client,
	}
}

// Generate answers a support question. Without an API key, or when the
// remote call fails, a keyword based local reply is returned instead.
func (s *Service) Generate(ctx context.Context, query string) (Result, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return Result{}, fmt.Errorf("query is required")
	}
	if len(q) > 1200 {
		return Result{}, fmt.Errorf("query too long")
	}

	if s.geminiAPIKey == "" {
		return Result{Reply: localReply(q), Source: "local"}, nil
	}

	reply, err := s.generateWithGemini(ctx, q)
	if err != nil {
		return Result{Reply: localReply(q), Source: "local_fallback"}, nil
	}
	return Result{Reply: reply, Source: "gemini"}, nil
}

func (s *Service) generateWithGemini(ctx context.Context, query string) (string, error) {
	reqBody := map[string]any{
		"contents": []map[string]any{
			{
				"parts": []map[string]string{
					{"text": query},
				},
			},
		},
		"systemInstruction": map[string]any{
			"parts": []map[string]string{
				{"text": defaultPrompt},
			},
		},
		"generationConfig": map[string]any{
			"temperature":     0.4,
			"maxOutputTokens": 320,
		},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent?key=%s", s.geminiModel, s.geminiAPIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("gemini status %d", resp.StatusCode)
	}

	var out geminiGenerateResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", err
	}
	reply := strings.TrimSpace(out.firstText())
	if reply == "" {
		return "", fmt.Errorf("empty gemini response")
	}
	return reply, nil
}

func localReply(query string) string {
	q := strings.ToLower(strings.TrimSpace(query))
	switch {
	case strings.Contains(q, "giris"), strings.Contains(q, "login"), strings.Contains(q, "sifre"):
		return "Kullanici adiniz ve sifrenizle giris yapin. Sifrenizi unuttuysaniz yoneticinizle iletisime gecin."
	case strings.Contains(q, "aktar"), strings.Contains(q, "import"), strings.Contains(q, "yukle"):
		return "Soru metnini iceri aktarma ekranina yapistirin. Her soru numarayla baslamali, secenekler A) B) C) seklinde siralanmali ve cozumler ÇÖZÜMLER basligindan sonra gelmelidir."
	case strings.Contains(q, "cevap anahtari"), strings.Contains(q, "cozum"):
		return "Cozum blogu 'N. ÇÖZÜM: aciklama CEVAP: X' bicimindedir. CEVAP harfi secenekle eslesmezse soru islenmez, once metni kontrol edin."
	case strings.Contains(q, "sure"), strings.Contains(q, "zaman"), strings.Contains(q, "timer"):
		return "Deneme suresi sunucu saatine gore isler. Sure dolunca deneme otomatik kapanir ve verilen cevaplar puanlanir."
	case strings.Contains(q, "puan"), strings.Contains(q, "sonuc"), strings.Contains(q, "skor"):
		return "Puan 100 uzerinden dogru sayisina gore hesaplanir. Deneme bittikten sonra sonuc sayfasinda soru bazinda dogru ve yanlislarinizi gorebilirsiniz."
	case strings.Contains(q, "hata"), strings.Contains(q, "sorun"):
		return "Sayfayi yenileyin ve tekrar giris yapin. Sorun devam ederse hatanin olustugu saatle birlikte yoneticinize bildirin."
	default:
		return "Soru aktarma, deneme cozme, puanlama ve hesap islemleri konusunda yardimci olabilirim. Sorununuzu kisaca yazin."
	}
}

type geminiGenerateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (r geminiGenerateResponse) firstText() string {
	for _, c := range r.Candidates {
		for _, p := range c.Content.Parts {
			if strings.TrimSpace(p.Text) != "" {
				return p.Text
			}
		}
	}
	return ""
}
