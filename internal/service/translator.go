package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Translation es el resultado de traducir un texto.
type Translation struct {
	DetectedLang string
	Text         string
}

// Translator traduce texto hacia un idioma destino. El camino de traducción
// es opcional: cuando no hay endpoint configurado no se instala.
type Translator interface {
	Translate(ctx context.Context, text, targetLang string) (Translation, error)
}

// HTTPTranslator llama a un servicio de traducción REST (formato Azure
// Translator v3).
type HTTPTranslator struct {
	endpoint string
	key      string
	region   string
	client   *http.Client
}

func NewHTTPTranslator(endpoint, key, region string) *HTTPTranslator {
	return &HTTPTranslator{
		endpoint: strings.TrimRight(endpoint, "/"),
		key:      key,
		region:   region,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (t *HTTPTranslator) Translate(ctx context.Context, text, targetLang string) (Translation, error) {
	body, err := json.Marshal([]map[string]string{{"text": text}})
	if err != nil {
		return Translation{}, fmt.Errorf("marshal request: %w", err)
	}

	params := url.Values{}
	params.Set("api-version", "3.0")
	params.Set("to", targetLang)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint+"/translate?"+params.Encode(), bytes.NewReader(body))
	if err != nil {
		return Translation{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", t.key)
	req.Header.Set("Ocp-Apim-Subscription-Region", t.region)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-ClientTraceId", uuid.NewString())

	resp, err := t.client.Do(req)
	if err != nil {
		return Translation{}, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return Translation{}, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return Translation{}, fmt.Errorf("translator http error: status=%d", resp.StatusCode)
	}

	var parsed []struct {
		DetectedLanguage struct {
			Language string `json:"language"`
		} `json:"detectedLanguage"`
		Translations []struct {
			Text string `json:"text"`
		} `json:"translations"`
	}
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return Translation{}, fmt.Errorf("unmarshal response: %w", err)
	}
	if len(parsed) == 0 || len(parsed[0].Translations) == 0 {
		return Translation{}, fmt.Errorf("translator empty response")
	}

	return Translation{
		DetectedLang: parsed[0].DetectedLanguage.Language,
		Text:         parsed[0].Translations[0].Text,
	}, nil
}

var _ Translator = (*HTTPTranslator)(nil)
