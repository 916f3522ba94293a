package export

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Gotenberg конвертирует HTML в PDF через Chromium модуль Gotenberg
type Gotenberg struct {
	baseURL string
	client  *http.Client
	logger  *logrus.Logger
}

func NewGotenberg(baseURL string, timeout time.Duration) *Gotenberg {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	return &Gotenberg{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Available сообщает, задан ли адрес сервиса
func (g *Gotenberg) Available() bool {
	return g != nil && g.baseURL != ""
}

// ConvertHTML отправляет страницу как index.html и возвращает PDF формата A4
func (g *Gotenberg) ConvertHTML(ctx context.Context, page []byte) ([]byte, error) {
	if !g.Available() {
		return nil, ErrUnavailable
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("files", "index.html")
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(page); err != nil {
		return nil, fmt.Errorf("failed to write html to form: %w", err)
	}

	// A4 в дюймах, поля 10 мм
	for key, value := range map[string]string{
		"paperWidth":   "8.27",
		"paperHeight":  "11.7",
		"marginTop":    "0.39",
		"marginBottom": "0.39",
		"marginLeft":   "0.39",
		"marginRight":  "0.39",
	} {
		if err := writer.WriteField(key, value); err != nil {
			return nil, fmt.Errorf("failed to write form field %s: %w", key, err)
		}
	}
	writer.Close()

	url := g.baseURL + "/forms/chromium/convert/html"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gotenberg request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	g.logger.WithFields(logrus.Fields{
		"url":   url,
		"bytes": len(page),
	}).Debug("Converting schedule to PDF")

	resp, err := g.client.Do(req)
	if err != nil {
		g.logger.WithError(err).Error("Gotenberg request failed")
		return nil, fmt.Errorf("failed to send request to Gotenberg: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		g.logger.WithField("status", resp.StatusCode).Error("Gotenberg conversion failed")
		return nil, fmt.Errorf("gotenberg conversion failed: status %d, body: %s", resp.StatusCode, string(respBody))
	}

	pdf, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF from Gotenberg: %w", err)
	}

	return pdf, nil
}
