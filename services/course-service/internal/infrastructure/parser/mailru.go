// Package parser turns a public cloud folder into an ordered lesson list.
package parser

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/waste3d/courseplatform-api/internal/platform/logger"
	"github.com/waste3d/courseplatform-api/services/course-service/internal/domain"
)

const DefaultMailRuAPI = "https://cloud.mail.ru/api/v2/folder"

type mailRuResponse struct {
	Body struct {
		List []struct {
			Name string `json:"name"`
			Type string `json:"type"` // video, image, file, folder
			Kind string `json:"kind"` // file, folder
		} `json:"list"`
	} `json:"body"`
}

type MailRuParser struct {
	apiURL string
	client *http.Client
	log    *logger.Logger
}

func NewMailRuParser(apiURL string, log *logger.Logger) *MailRuParser {
	if apiURL == "" {
		apiURL = DefaultMailRuAPI
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &MailRuParser{
		apiURL: apiURL,
		client: &http.Client{Timeout: 10 * time.Second},
		log:    log,
	}
}

// ListLessons reads the files of a https://cloud.mail.ru/public/<weblink>
// folder. Each file becomes one lesson titled by its name without extension.
func (p *MailRuParser) ListLessons(ctx context.Context, publicLink string) ([]domain.Lesson, error) {
	parts := strings.SplitN(publicLink, "/public/", 2)
	if len(parts) < 2 || parts[1] == "" {
		return nil, fmt.Errorf("invalid mail.ru link %q: %w", publicLink, domain.ErrInvalidInput)
	}
	weblink := strings.Trim(parts[1], "/")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.apiURL+"?weblink="+url.QueryEscape(weblink), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "*/*")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("mail.ru request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("mail.ru api returned status: %d", resp.StatusCode)
	}

	var mr mailRuResponse
	if err := json.Unmarshal(body, &mr); err != nil {
		return nil, fmt.Errorf("mail.ru decode: %w", err)
	}

	base := strings.TrimRight(publicLink, "/")
	var lessons []domain.Lesson
	for _, item := range mr.Body.List {
		if item.Kind != "file" && item.Type != "video" && item.Type != "file" {
			continue
		}
		lessons = append(lessons, domain.Lesson{
			Title:    strings.TrimSuffix(item.Name, path.Ext(item.Name)),
			FileLink: base + "/" + item.Name,
		})
	}

	p.log.Debug("mail.ru folder parsed", "weblink", weblink, "items", len(mr.Body.List), "lessons", len(lessons))
	if len(lessons) == 0 {
		return nil, fmt.Errorf("0 files found in folder %s", weblink)
	}
	return lessons, nil
}
