// Package client はストアフロント向けのAPIクライアント。
// カート状態と注文送信（バックエンド障害時はローカルのモック注文に退避）を持つ。
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// セッショントークンが無い・無効なときに返す。
// 呼び出し側は再ログインを促す（バリデーションや通信エラーとは区別する）。
var ErrAuthRequired = errors.New("authentication required")

// サーバーが4xx/5xxを返したときのエラー。
type APIError struct {
	Status  int
	Message string
	Detail  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

func AsAPIError(err error) (*APIError, bool) {
	var ae *APIError
	ok := errors.As(err, &ae)
	return ae, ok
}

const defaultTimeout = 10 * time.Second

type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
	}
}

// SetToken はbearerトークンを設定する。空文字で未ログイン状態に戻る。
func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) HasToken() bool {
	return c.token != ""
}

// サーバーのエラーレスポンス（{success,message,error}）。
type errorEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Err     string `json:"error"`
}

// doJSON はリクエストを送りステータスコードを返す。
// 2xx以外は*APIErrorに詰め替える。通信失敗はそのままのerrorを返す。
func (c *Client) doJSON(ctx context.Context, method string, path string, body interface{}, out interface{}) (int, error) {
	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, err
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		//ネットワーク断・タイムアウトはここ
		return 0, err
	}
	defer res.Body.Close()

	if res.StatusCode >= 200 && res.StatusCode < 300 {
		if out != nil {
			if err := json.NewDecoder(res.Body).Decode(out); err != nil {
				return res.StatusCode, err
			}
		}
		return res.StatusCode, nil
	}

	var env errorEnvelope
	_ = json.NewDecoder(res.Body).Decode(&env)
	msg := env.Message
	if msg == "" {
		msg = res.Status
	}
	return res.StatusCode, &APIError{Status: res.StatusCode, Message: msg, Detail: env.Err}
}
