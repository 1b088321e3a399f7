package marketplace

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"listing_wizard_v1_202610/internal/middleware"
	"listing_wizard_v1_202610/internal/wizard"
	"listing_wizard_v1_202610/pkg/logger"
)

// Options 远程上架服务配置
type Options struct {
	BaseURL string
	Token   string // 服务间调用的 Bearer Token，可为空
	Timeout time.Duration
	Debug   bool
}

// Client 远程上架服务客户端
type Client struct {
	http *resty.Client
}

var _ wizard.ListingCreator = (*Client)(nil)

// NewClient 创建客户端
func NewClient(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}

	c := resty.New().
		SetBaseURL(opts.BaseURL).
		SetTimeout(opts.Timeout).
		SetDebug(opts.Debug).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "Listing-Wizard/1.0")
	if opts.Token != "" {
		c.SetAuthToken(opts.Token)
	}

	return &Client{http: c}
}

// ==================== 响应结构 ====================

type createResp struct {
	ID listingID `json:"id"`
}

type errorResp struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (e *errorResp) detail() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}

// listingID 服务端可能返回数字或字符串 ID
type listingID string

func (id *listingID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = listingID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = listingID(n.String())
	return nil
}

// ==================== 上架 ====================

// Create POST {base}/listings
// 4xx 视为业务拒绝，服务端 message 原样作为 Detail 展示给用户；
// 5xx 和网络错误只记录，不暴露细节
func (c *Client) Create(ctx context.Context, payload *wizard.ListingPayload) (wizard.ListingID, error) {
	var result createResp
	var apiErr errorResp

	req := c.http.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(&result).
		SetError(&apiErr)
	if userID := middleware.GetAuditUserID(ctx); userID > 0 {
		req.SetHeader("X-User-ID", strconv.FormatInt(userID, 10))
	}

	resp, err := req.Post("/listings")
	if err != nil {
		logger.L().Warn("[Marketplace] 请求发送失败", zap.Error(err))
		return "", &wizard.SubmissionError{Err: fmt.Errorf("网络请求发送失败: %w", err)}
	}

	switch {
	case resp.IsSuccess():
		if result.ID == "" {
			return "", &wizard.SubmissionError{Err: fmt.Errorf("响应异常，未获取到商品 ID: %s", resp.String())}
		}
		return wizard.ListingID(result.ID), nil
	case resp.StatusCode() >= 400 && resp.StatusCode() < 500:
		detail := apiErr.detail()
		if detail == "" {
			detail = fmt.Sprintf("上架服务拒绝了请求 (Status %d)", resp.StatusCode())
		}
		return "", &wizard.SubmissionError{
			Detail: detail,
			Err:    fmt.Errorf("status %d", resp.StatusCode()),
		}
	default:
		logger.L().Warn("[Marketplace] 上架服务异常",
			zap.Int("status", resp.StatusCode()),
			zap.String("body", resp.String()),
		)
		return "", &wizard.SubmissionError{Err: errors.New("上架服务异常: " + resp.Status())}
	}
}
