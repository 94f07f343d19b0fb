package client

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Session 保存登录令牌；每个客户端进程构造一个，显式传给 New
type Session interface {
	Token() string
	Set(token string) error
	Clear() error
}

type MemorySession struct {
	mu  sync.RWMutex
	tok string
}

func NewMemorySession() *MemorySession { return &MemorySession{} }

func (s *MemorySession) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tok
}

func (s *MemorySession) Set(token string) error {
	s.mu.Lock()
	s.tok = token
	s.mu.Unlock()
	return nil
}

func (s *MemorySession) Clear() error { return s.Set("") }

// FileSession 令牌落盘；每次调用都重新读文件，其他进程的刷新/退出立即可见
type FileSession struct {
	Path string
	mu   sync.Mutex
}

func NewFileSession(path string) *FileSession { return &FileSession{Path: path} }

func (s *FileSession) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := os.ReadFile(s.Path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(b))
}

func (s *FileSession) Set(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o700); err != nil {
		return err
	}
	// 先写临时文件再改名，读方不会看到半截令牌
	tmp := s.Path + ".tmp"
	if err := os.WriteFile(tmp, []byte(token), 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.Path)
}

func (s *FileSession) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
