package oss

import (
	"context"
	"path"
	"path/filepath"
	"strings"
	"time"

	"hostpatrol/pkg/core/config"
	errorc "hostpatrol/pkg/core/err"
	"hostpatrol/pkg/core/logger"

	"github.com/aliyun/alibabacloud-oss-go-sdk-v2/oss"
	"github.com/aliyun/alibabacloud-oss-go-sdk-v2/oss/credentials"
	"github.com/google/uuid"
)

const (
	DefaultFolder       = "reports"
	DefaultExpiresHours = 24
)

// AliyunService 阿里云OSS服务实现，每个通知通道使用自己的凭证
type AliyunService struct {
	config *config.OssConfig
	client *oss.Client
	log    *logger.Log
	err    *errorc.ErrorBuilder
}

// NewAliyunService 创建阿里云OSS服务实例
func NewAliyunService(cfg *config.OssConfig) (*AliyunService, error) {
	log := logger.GetLogger().WithEntryName("AliyunOSSService")
	errBuilder := errorc.NewErrorBuilder("AliyunOSSService")

	if !cfg.Complete() {
		return nil, errBuilder.New("OSS配置不完整", nil).Config()
	}

	region := cfg.Region
	if region == "" {
		region = RegionFromEndpoint(cfg.Endpoint)
	}
	provider := credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.AccessKeySecret, "")
	ossCfg := oss.LoadDefaultConfig().
		WithCredentialsProvider(provider).
		WithRegion(region).
		WithEndpoint(cfg.Endpoint)

	return &AliyunService{
		config: cfg,
		client: oss.NewClient(ossCfg),
		log:    log,
		err:    errBuilder,
	}, nil
}

// RegionFromEndpoint 从 oss-cn-hangzhou.aliyuncs.com 形式的域名中取出 cn-hangzhou
func RegionFromEndpoint(endpoint string) string {
	host := strings.TrimPrefix(strings.TrimPrefix(endpoint, "https://"), "http://")
	host = strings.SplitN(host, ".", 2)[0]
	host = strings.TrimSuffix(host, "-internal")
	return strings.TrimPrefix(host, "oss-")
}

// ObjectKey 对象键：<folder>/<日期>/<uuid>_<文件名>
func (s *AliyunService) ObjectKey(localPath string, now time.Time) string {
	folder := strings.Trim(s.config.FolderPath, "/")
	if folder == "" {
		folder = DefaultFolder
	}
	name := uuid.NewString()[:8] + "_" + filepath.Base(localPath)
	return path.Join(folder, now.Format("20060102"), name)
}

// UploadFile 上传本地文件，返回对象键
func (s *AliyunService) UploadFile(ctx context.Context, localPath string) (string, error) {
	key := s.ObjectKey(localPath, time.Now())
	_, err := s.client.PutObjectFromFile(ctx, &oss.PutObjectRequest{
		Bucket: oss.Ptr(s.config.Bucket),
		Key:    oss.Ptr(key),
	}, localPath)
	if err != nil {
		return "", s.err.New("上传报告到OSS失败", err).Third()
	}
	s.log.WithField("bucket", s.config.Bucket).WithField("key", key).Info("报告已上传到OSS")
	return key, nil
}

// GetDownloadUrl 获取签名下载链接
func (s *AliyunService) GetDownloadUrl(ctx context.Context, objectKey string, name string, expire time.Duration) (string, error) {
	objectKey = strings.TrimPrefix(objectKey, "/")
	if expire <= 0 {
		expire = DefaultExpiresHours * time.Hour
	}

	request := &oss.GetObjectRequest{
		Bucket: oss.Ptr(s.config.Bucket),
		Key:    oss.Ptr(objectKey),
	}
	if name != "" {
		request.ResponseContentDisposition = oss.Ptr("attachment;filename=" + name)
	}
	result, err := s.client.Presign(ctx, request, oss.PresignExpires(expire))
	if err != nil {
		return "", s.err.New("生成OSS下载链接失败", err).Third()
	}
	return result.URL, nil
}

// DeleteFile 删除对象
func (s *AliyunService) DeleteFile(ctx context.Context, objectKey string) error {
	_, err := s.client.DeleteObject(ctx, &oss.DeleteObjectRequest{
		Bucket: oss.Ptr(s.config.Bucket),
		Key:    oss.Ptr(strings.TrimPrefix(objectKey, "/")),
	})
	if err != nil {
		return s.err.New("删除OSS文件失败", err).Third()
	}
	return nil
}

// Archive 上传报告文件并返回有效期内的下载链接
func Archive(ctx context.Context, cfg config.OssConfig, localPath string) (string, error) {
	s, err := NewAliyunService(&cfg)
	if err != nil {
		return "", err
	}
	key, err := s.UploadFile(ctx, localPath)
	if err != nil {
		return "", err
	}
	hours := cfg.ExpiresHours
	if hours <= 0 {
		hours = DefaultExpiresHours
	}
	return s.GetDownloadUrl(ctx, key, filepath.Base(localPath), time.Duration(hours)*time.Hour)
}
