package storage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/yog-Raj-sharma/employee-details/config"
)

var (
	// ErrUnsupportedType 扩展名、声明类型或实际内容不是 JPEG/PNG
	ErrUnsupportedType = errors.New("only jpg/jpeg/png images are allowed")
	// ErrTooLarge 文件超过大小上限
	ErrTooLarge = errors.New("image exceeds size limit")
)

var (
	allowedExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true}
	// image/jpg 不是标准类型，但部分浏览器会这样声明
	allowedDeclared = map[string]bool{"image/jpeg": true, "image/jpg": true, "image/png": true}
)

// LocalStore 将头像保存在本地目录，通过静态路由公开访问
type LocalStore struct {
	dir       string
	urlPrefix string
	maxSize   int64
	now       func() time.Time
}

// NewLocalStore 创建本地图片存储，目录不存在时自动创建
func NewLocalStore(cfg *config.UploadConfig) (*LocalStore, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("创建上传目录失败: %w", err)
	}
	return &LocalStore{
		dir:       cfg.Dir,
		urlPrefix: strings.TrimRight(cfg.URLPrefix, "/"),
		maxSize:   cfg.MaxSize,
		now:       time.Now,
	}, nil
}

// Dir 返回存储目录（供静态路由挂载）
func (s *LocalStore) Dir() string { return s.dir }

// URLPrefix 返回公开访问前缀
func (s *LocalStore) URLPrefix() string { return s.urlPrefix }

// Save 校验并保存上传的图片，返回公开访问路径（如 /uploads/1700000000000-a.png）
func (s *LocalStore) Save(fh *multipart.FileHeader) (string, error) {
	if s.maxSize > 0 && fh.Size > s.maxSize {
		return "", ErrTooLarge
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowedExts[ext] {
		return "", ErrUnsupportedType
	}
	declared := strings.ToLower(strings.TrimSpace(strings.Split(fh.Header.Get("Content-Type"), ";")[0]))
	if !allowedDeclared[declared] {
		return "", ErrUnsupportedType
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("打开上传文件失败: %w", err)
	}
	defer src.Close()

	detected, err := mimetype.DetectReader(src)
	if err != nil {
		return "", fmt.Errorf("识别文件类型失败: %w", err)
	}
	if !detected.Is("image/jpeg") && !detected.Is("image/png") {
		return "", ErrUnsupportedType
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("重置文件读取位置失败: %w", err)
	}

	dst, name, err := s.create(sanitizeFilename(fh.Filename))
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(filepath.Join(s.dir, name))
		return "", fmt.Errorf("写入图片失败: %w", err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(filepath.Join(s.dir, name))
		return "", fmt.Errorf("写入图片失败: %w", err)
	}

	return path.Join(s.urlPrefix, name), nil
}

// create 以 "时间戳-原文件名" 创建文件，同名已存在时追加随机段
func (s *LocalStore) create(base string) (*os.File, string, error) {
	name := fmt.Sprintf("%d-%s", s.now().UnixMilli(), base)
	f, err := os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, os.ErrExist) {
		name = fmt.Sprintf("%d-%s-%s", s.now().UnixMilli(), uuid.New().String()[:8], base)
		f, err = os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	}
	if err != nil {
		return nil, "", fmt.Errorf("创建图片文件失败: %w", err)
	}
	return f, name, nil
}

// Remove 删除公开路径对应的文件；路径为空、不属于本存储或文件已不存在时视为成功
func (s *LocalStore) Remove(publicPath string) error {
	if publicPath == "" || !strings.HasPrefix(publicPath, s.urlPrefix+"/") {
		return nil
	}
	name := path.Base(publicPath)
	if name == "." || name == "/" || name == ".." {
		return nil
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("删除图片失败: %w", err)
	}
	return nil
}

// sanitizeFilename 去掉目录部分，只保留安全字符
func sanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 || strings.Trim(b.String(), ".") == "" {
		return "image"
	}
	return b.String()
}
