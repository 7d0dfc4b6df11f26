package infrastructure

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"bookhub/internal/pkg/httpclient"

	"github.com/pkg/errors"
)

// CloudinaryConfig 是签名上传所需的账号信息。
type CloudinaryConfig struct {
	BaseURL   string
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

// CloudinaryImageStore 通过 Cloudinary 的签名上传接口实现 domain.ImageStore。
type CloudinaryImageStore struct {
	client *httpclient.Client
	cfg    CloudinaryConfig
	now    func() time.Time
}

func NewCloudinaryImageStore(client *httpclient.Client, cfg CloudinaryConfig) *CloudinaryImageStore {
	return &CloudinaryImageStore{client: client, cfg: cfg, now: time.Now}
}

type uploadResult struct {
	SecureURL string `json:"secure_url"`
}

func (s *CloudinaryImageStore) Upload(ctx context.Context, fileName string, content io.Reader) (string, error) {
	if s.cfg.CloudName == "" || s.cfg.APIKey == "" {
		return "", errors.New("cloudinary is not configured")
	}
	timestamp := strconv.FormatInt(s.now().Unix(), 10)
	fields := map[string]string{
		"api_key":   s.cfg.APIKey,
		"timestamp": timestamp,
		"folder":    s.cfg.Folder,
		"signature": s.sign(timestamp),
	}
	url := fmt.Sprintf("%s/%s/image/upload", s.cfg.BaseURL, s.cfg.CloudName)

	body, err := s.client.PostMultipart(ctx, url, fields, httpclient.FilePart{
		FieldName: "file",
		FileName:  fileName,
		Content:   content,
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to upload image")
	}
	var res uploadResult
	if err := json.Unmarshal(body, &res); err != nil {
		return "", errors.Wrap(err, "failed to decode upload response")
	}
	if res.SecureURL == "" {
		return "", errors.New("upload response has no secure_url")
	}
	return res.SecureURL, nil
}

// sign 对按字母序排列的 folder、timestamp 参数追加 secret 后做 SHA-1。
func (s *CloudinaryImageStore) sign(timestamp string) string {
	payload := "folder=" + s.cfg.Folder + "&timestamp=" + timestamp + s.cfg.APISecret
	sum := sha1.Sum([]byte(payload))
	return hex.EncodeToString(sum[:])
}
