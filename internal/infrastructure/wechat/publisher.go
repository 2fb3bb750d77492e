package wechat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"NewscastDigest/internal/config"
	"NewscastDigest/internal/domain"
	"NewscastDigest/internal/ports"
)

// Client drives the Official Account publishing workflows on top of the
// token cache. Remote failures never escape as errors; every operation
// reports through a domain.PublishOutcome. Partial failures leave remote
// drafts or uploaded media behind; nothing cleans those up.
type Client struct {
	baseURL string
	author  string
	tokens  *tokenCache
	client  *http.Client
	logger  *slog.Logger
}

var _ ports.Publisher = (*Client)(nil)

// NewClient builds a publisher from configuration.
func NewClient(cfg config.WeChatConfig, logger *slog.Logger) *Client {
	httpClient := &http.Client{Timeout: 30 * time.Second}
	return &Client{
		baseURL: cfg.BaseURL,
		author:  cfg.Author,
		tokens:  newTokenCache(cfg.AppID, cfg.AppSecret, cfg.BaseURL, httpClient),
		client:  httpClient,
		logger:  logger,
	}
}

// PublishArticle runs the authenticate -> create draft -> publish sequence,
// short-circuiting on the first failed step.
func (c *Client) PublishArticle(ctx context.Context, payload domain.ArticlePayload) domain.PublishOutcome {
	token, err := c.tokens.obtain(ctx)
	if err != nil {
		return failure("authenticate: " + err.Error())
	}

	draftID, err := c.createDraft(ctx, token, payload)
	if err != nil {
		return failure("create draft: " + err.Error())
	}

	if err := c.publishDraft(ctx, token, draftID); err != nil {
		return domain.PublishOutcome{
			Message: "publish draft: " + err.Error(),
			DraftID: draftID,
		}
	}

	c.debug("article published", "title", payload.Title, "draft_id", draftID)
	return domain.PublishOutcome{Success: true, Message: "article published", DraftID: draftID}
}

// PublishImage uploads the image, wraps it in a minimal article body, and
// runs the same draft/publish sequence.
func (c *Client) PublishImage(ctx context.Context, imagePath, title string) domain.PublishOutcome {
	token, err := c.tokens.obtain(ctx)
	if err != nil {
		return failure("authenticate: " + err.Error())
	}

	mediaID, err := c.uploadMedia(ctx, token, imagePath)
	if err != nil {
		return failure("upload media: " + err.Error())
	}

	payload := domain.ArticlePayload{
		Title:   title,
		Author:  c.author,
		Digest:  title,
		Content: imageContent(title, mediaID),
	}

	draftID, err := c.createDraft(ctx, token, payload)
	if err != nil {
		return domain.PublishOutcome{Message: "create draft: " + err.Error(), MediaID: mediaID}
	}

	if err := c.publishDraft(ctx, token, draftID); err != nil {
		return domain.PublishOutcome{
			Message: "publish draft: " + err.Error(),
			MediaID: mediaID,
			DraftID: draftID,
		}
	}

	c.debug("image published", "title", title, "media_id", mediaID, "draft_id", draftID)
	return domain.PublishOutcome{
		Success: true,
		Message: "image published",
		MediaID: mediaID,
		DraftID: draftID,
	}
}

// UploadMedia pushes one image into the media library without publishing.
func (c *Client) UploadMedia(ctx context.Context, imagePath string) domain.PublishOutcome {
	token, err := c.tokens.obtain(ctx)
	if err != nil {
		return failure("authenticate: " + err.Error())
	}

	mediaID, err := c.uploadMedia(ctx, token, imagePath)
	if err != nil {
		return failure("upload media: " + err.Error())
	}

	return domain.PublishOutcome{Success: true, Message: "media uploaded", MediaID: mediaID}
}

func (c *Client) createDraft(ctx context.Context, token string, payload domain.ArticlePayload) (string, error) {
	article := map[string]string{
		"title":              payload.Title,
		"author":             payload.Author,
		"digest":             draftDigest(payload),
		"content":            payload.Content,
		"content_source_url": "",
		"thumb_media_id":     "",
	}

	body, err := json.Marshal(map[string]any{"articles": []map[string]string{article}})
	if err != nil {
		return "", fmt.Errorf("marshal draft: %w", err)
	}

	endpoint := c.baseURL + "/cgi-bin/draft/add?access_token=" + url.QueryEscape(token)
	var resp struct {
		MediaID string `json:"media_id"`
		ErrCode int    `json:"errcode"`
		ErrMsg  string `json:"errmsg"`
	}
	if err := c.postJSON(ctx, endpoint, body, &resp); err != nil {
		return "", err
	}

	if resp.MediaID == "" {
		return "", fmt.Errorf("draft creation failed: errcode=%d errmsg=%s", resp.ErrCode, resp.ErrMsg)
	}

	return resp.MediaID, nil
}

func (c *Client) publishDraft(ctx context.Context, token, draftID string) error {
	body, err := json.Marshal(map[string]string{"media_id": draftID})
	if err != nil {
		return fmt.Errorf("marshal publish request: %w", err)
	}

	endpoint := c.baseURL + "/cgi-bin/freepublish/submit?access_token=" + url.QueryEscape(token)
	var resp struct {
		ErrCode int    `json:"errcode"`
		ErrMsg  string `json:"errmsg"`
	}
	if err := c.postJSON(ctx, endpoint, body, &resp); err != nil {
		return err
	}

	if resp.ErrCode != 0 {
		return fmt.Errorf("publish rejected: errcode=%d errmsg=%s", resp.ErrCode, resp.ErrMsg)
	}

	return nil
}

func (c *Client) uploadMedia(ctx context.Context, token, imagePath string) (string, error) {
	file, err := os.Open(imagePath)
	if err != nil {
		return "", fmt.Errorf("open image: %w", err)
	}
	defer file.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("media", filepath.Base(imagePath))
	if err != nil {
		return "", fmt.Errorf("build form: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", fmt.Errorf("copy image: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("close form: %w", err)
	}

	query := url.Values{}
	query.Set("access_token", token)
	query.Set("type", "image")
	endpoint := c.baseURL + "/cgi-bin/media/upload?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return "", fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	httpResp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload request: %w", err)
	}
	defer httpResp.Body.Close()

	var resp struct {
		MediaID string `json:"media_id"`
		ErrCode int    `json:"errcode"`
		ErrMsg  string `json:"errmsg"`
	}
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return "", fmt.Errorf("decode upload response: %w", err)
	}

	if resp.MediaID == "" {
		return "", fmt.Errorf("upload failed: errcode=%d errmsg=%s", resp.ErrCode, resp.ErrMsg)
	}

	return resp.MediaID, nil
}

func (c *Client) postJSON(ctx context.Context, endpoint string, body []byte, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

func (c *Client) debug(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}

func failure(message string) domain.PublishOutcome {
	return domain.PublishOutcome{Message: message}
}

// draftDigest falls back to the leading slice of the body when no explicit
// digest is provided.
func draftDigest(payload domain.ArticlePayload) string {
	if payload.Digest != "" {
		return payload.Digest
	}
	runes := []rune(payload.Content)
	if len(runes) <= 100 {
		return payload.Content
	}
	return string(runes[:100]) + "..."
}

func imageContent(title, mediaID string) string {
	return fmt.Sprintf("<p><strong>%s</strong></p><p><img src=\"%s\" alt=\"%s\" /></p>", title, mediaID, title)
}
