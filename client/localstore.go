package client

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// LocalOrderStore はサーバーに届かなかった注文をローカルに残すキャッシュ。
// 権威はあくまでサーバー側の注文ストアで、これは別物。
// 接続回復時の再送（reconciliation）は行わない。読み出して破棄するだけ。
// ライフサイクル: Populate（読み込み）→ Read（参照）→ Invalidate（破棄）。
type LocalOrderStore struct {
	mu     sync.Mutex
	path   string
	orders []LocalOrder
}

func NewLocalOrderStore(path string) *LocalOrderStore {
	return &LocalOrderStore{path: path}
}

// Populate はファイルから既存のモック注文を読み込む。
// ファイルが無ければ空で始める。
func (s *LocalOrderStore) Populate() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.orders = nil
		return nil
	}
	if err != nil {
		return err
	}

	var orders []LocalOrder
	if err := json.Unmarshal(data, &orders); err != nil {
		return err
	}
	s.orders = orders
	return nil
}

// Save はモック注文を追記してファイルに書き戻す。
func (s *LocalOrderStore) Save(order LocalOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.orders = append(s.orders, order)
	return s.flush()
}

// Read は保持中のモック注文のコピーを返す。
func (s *LocalOrderStore) Read() []LocalOrder {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]LocalOrder, len(s.orders))
	copy(out, s.orders)
	return out
}

// Invalidate は全モック注文を破棄してファイルも消す。
func (s *LocalOrderStore) Invalidate() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.orders = nil
	err := os.Remove(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func (s *LocalOrderStore) flush() error {
	data, err := json.MarshalIndent(s.orders, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(s.path, data, 0o644)
}
