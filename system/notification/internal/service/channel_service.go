package service

import (
	"context"
	"strings"
	"time"

	"hostpatrol/pkg/core/config"
	errorc "hostpatrol/pkg/core/err"
	"hostpatrol/pkg/core/logger"
	"hostpatrol/pkg/core/mvc"
	"hostpatrol/pkg/core/util"
	"hostpatrol/pkg/notifier"
	"hostpatrol/system/notification/internal/dao"
	"hostpatrol/system/notification/internal/model"
	"hostpatrol/system/notification/internal/model/dto"

	"gorm.io/gorm"
)

// ChannelService 通知通道服务层
type ChannelService struct {
	mvc.IBaseService[model.NotificationChannelModel]
	dao *dao.ChannelDao
	box *util.SecretBox
	log *logger.Log
	err *errorc.ErrorBuilder
}

func NewChannelService(db *gorm.DB, box *util.SecretBox, log *logger.Log) *ChannelService {
	channelDao := dao.NewChannelDao(db, log)
	return &ChannelService{
		IBaseService: mvc.NewBaseService[model.NotificationChannelModel](channelDao),
		dao:          channelDao,
		box:          box,
		log:          log.WithEntryName("ChannelService"),
		err:          errorc.NewErrorBuilder("ChannelService"),
	}
}

func (s *ChannelService) Dao() *dao.ChannelDao {
	return s.dao
}

// checkOSS 启用 OSS 时 endpoint、bucket、AccessKey 都必须填写
func (s *ChannelService) checkOSS(m *model.NotificationChannelModel) error {
	if !m.OSSEnabled {
		return nil
	}
	var missing []string
	if m.OSSEndpoint == "" {
		missing = append(missing, "Endpoint")
	}
	if m.OSSBucket == "" {
		missing = append(missing, "Bucket")
	}
	if m.OSSAccessKeyID == "" {
		missing = append(missing, "AccessKey ID")
	}
	if m.OSSAccessKeySecret == "" {
		missing = append(missing, "AccessKey Secret")
	}
	if len(missing) > 0 {
		return s.err.New("启用OSS时必须填写: "+strings.Join(missing, "、"), nil).Config()
	}
	return nil
}

func normalizeMethod(method string) string {
	if strings.EqualFold(method, model.MethodGet) {
		return model.MethodGet
	}
	return model.MethodPost
}

func (s *ChannelService) encrypt(secret string) (string, error) {
	if secret == "" {
		return "", nil
	}
	enc, err := s.box.Encrypt(secret)
	if err != nil {
		return "", s.err.New("AccessKey Secret 加密失败", err).Config()
	}
	return enc, nil
}

// Create 创建通道
func (s *ChannelService) Create(ctx context.Context, req *dto.CreateChannelRequest) (*model.NotificationChannelModel, error) {
	m := &model.NotificationChannelModel{
		Name:            strings.TrimSpace(req.Name),
		WebhookURL:      strings.TrimSpace(req.WebhookURL),
		Method:          normalizeMethod(req.Method),
		Timeout:         req.Timeout,
		IsEnabled:       req.IsEnabled == nil || *req.IsEnabled,
		RequestBody:     req.RequestBody,
		OSSEnabled:      req.OSSEnabled,
		OSSEndpoint:     strings.TrimSpace(req.OSSEndpoint),
		OSSRegion:       strings.TrimSpace(req.OSSRegion),
		OSSBucket:       strings.TrimSpace(req.OSSBucket),
		OSSAccessKeyID:  strings.TrimSpace(req.OSSAccessKeyID),
		OSSFolderPath:   strings.Trim(req.OSSFolderPath, " /"),
		OSSExpiresHours: req.OSSExpiresHours,
	}
	if m.Timeout <= 0 {
		m.Timeout = model.DefaultTimeout
	}
	if m.OSSFolderPath == "" {
		m.OSSFolderPath = model.DefaultFolderPath
	}
	if m.OSSExpiresHours <= 0 {
		m.OSSExpiresHours = model.DefaultExpiresHours
	}

	// 先用明文判断是否齐全，再加密
	m.OSSAccessKeySecret = req.OSSAccessKeySecret
	if err := s.checkOSS(m); err != nil {
		return nil, err
	}
	secret, err := s.encrypt(req.OSSAccessKeySecret)
	if err != nil {
		return nil, err
	}
	m.OSSAccessKeySecret = secret

	if err := s.dao.Create(ctx, m); err != nil {
		return nil, err
	}
	s.log.WithField("name", m.Name).Info("通知通道创建成功")
	return m, nil
}

// Update 更新通道
func (s *ChannelService) Update(ctx context.Context, id int64, req *dto.UpdateChannelRequest) (*model.NotificationChannelModel, error) {
	m, err := s.dao.FindById(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		m.Name = strings.TrimSpace(*req.Name)
	}
	if req.WebhookURL != nil {
		m.WebhookURL = strings.TrimSpace(*req.WebhookURL)
	}
	if req.Method != nil {
		m.Method = normalizeMethod(*req.Method)
	}
	if req.Timeout != nil {
		m.Timeout = *req.Timeout
	}
	if req.IsEnabled != nil {
		m.IsEnabled = *req.IsEnabled
	}
	if req.RequestBody != nil {
		m.RequestBody = *req.RequestBody
	}
	if req.OSSEnabled != nil {
		m.OSSEnabled = *req.OSSEnabled
	}
	if req.OSSEndpoint != nil {
		m.OSSEndpoint = strings.TrimSpace(*req.OSSEndpoint)
	}
	if req.OSSRegion != nil {
		m.OSSRegion = strings.TrimSpace(*req.OSSRegion)
	}
	if req.OSSBucket != nil {
		m.OSSBucket = strings.TrimSpace(*req.OSSBucket)
	}
	if req.OSSAccessKeyID != nil {
		m.OSSAccessKeyID = strings.TrimSpace(*req.OSSAccessKeyID)
	}
	if req.OSSFolderPath != nil {
		m.OSSFolderPath = strings.Trim(*req.OSSFolderPath, " /")
		if m.OSSFolderPath == "" {
			m.OSSFolderPath = model.DefaultFolderPath
		}
	}
	if req.OSSExpiresHours != nil {
		m.OSSExpiresHours = *req.OSSExpiresHours
	}
	if req.OSSAccessKeySecret != nil && *req.OSSAccessKeySecret != "" {
		if m.OSSAccessKeySecret, err = s.encrypt(*req.OSSAccessKeySecret); err != nil {
			return nil, err
		}
	}
	if err := s.checkOSS(m); err != nil {
		return nil, err
	}

	_, err = s.dao.UpdateColumnsById(ctx, id, map[string]interface{}{
		"name":                  m.Name,
		"webhook_url":           m.WebhookURL,
		"method":                m.Method,
		"timeout":               m.Timeout,
		"is_enabled":            m.IsEnabled,
		"request_body":          m.RequestBody,
		"oss_enabled":           m.OSSEnabled,
		"oss_endpoint":          m.OSSEndpoint,
		"oss_region":            m.OSSRegion,
		"oss_bucket":            m.OSSBucket,
		"oss_access_key_id":     m.OSSAccessKeyID,
		"oss_access_key_secret": m.OSSAccessKeySecret,
		"oss_folder_path":       m.OSSFolderPath,
		"oss_expires_hours":     m.OSSExpiresHours,
		"updated_at":            time.Now(),
	})
	if err != nil {
		return nil, err
	}
	s.log.WithField("name", m.Name).Info("通知通道更新成功")
	return m, nil
}

// ToChannel 转成投递用的通道，解密 OSS 密钥
func (s *ChannelService) ToChannel(m *model.NotificationChannelModel) (notifier.Channel, error) {
	ch := notifier.Channel{
		ID:          m.ID,
		Name:        m.Name,
		WebhookURL:  m.WebhookURL,
		Method:      m.Method,
		Timeout:     time.Duration(m.Timeout) * time.Second,
		RequestBody: m.RequestBody,
		OSSEnabled:  m.OSSEnabled,
	}
	if !m.OSSEnabled {
		return ch, nil
	}
	secret, err := s.box.Decrypt(m.OSSAccessKeySecret)
	if err != nil {
		return ch, s.err.New("AccessKey Secret 解密失败", err).Config()
	}
	ch.OSS = config.OssConfig{
		Endpoint:        m.OSSEndpoint,
		Region:          m.OSSRegion,
		Bucket:          m.OSSBucket,
		AccessKeyID:     m.OSSAccessKeyID,
		AccessKeySecret: secret,
		FolderPath:      m.OSSFolderPath,
		ExpiresHours:    m.OSSExpiresHours,
	}
	return ch, nil
}
