package service

import (
	"context"
	"strings"

	errorc "hostpatrol/pkg/core/err"
	"hostpatrol/pkg/core/logger"
	"hostpatrol/pkg/core/mvc"
	"hostpatrol/pkg/core/util"
	"hostpatrol/pkg/sshx"
	"hostpatrol/system/server/internal/dao"
	"hostpatrol/system/server/internal/model"
	"hostpatrol/system/server/internal/model/dto"

	"gorm.io/gorm"
)

// ServerService 服务器服务层
type ServerService struct {
	mvc.IBaseService[model.ServerModel]
	dao *dao.ServerDao
	box *util.SecretBox
	log *logger.Log
	err *errorc.ErrorBuilder
}

// NewServerService 创建服务器服务实例
func NewServerService(db *gorm.DB, box *util.SecretBox, log *logger.Log) *ServerService {
	serverDao := dao.NewServerDao(db, log)
	return &ServerService{
		IBaseService: mvc.NewBaseService[model.ServerModel](serverDao),
		dao:          serverDao,
		box:          box,
		log:          log.WithEntryName("ServerService"),
		err:          errorc.NewErrorBuilder("ServerService"),
	}
}

func (s *ServerService) Dao() *dao.ServerDao {
	return s.dao
}

// CheckCredential 密码与私钥路径必须且只能有一项，authType 非空时需与之一致
func (s *ServerService) CheckCredential(authType string, hasPassword, hasKey bool) (string, error) {
	if hasPassword == hasKey {
		return "", s.err.New("密码与私钥路径必须且只能填写一项", nil).Config()
	}
	derived := model.AuthPassword
	if hasKey {
		derived = model.AuthPrivateKey
	}
	if authType != "" && authType != derived {
		return "", s.err.New("认证方式与填写的凭证不一致", nil).Config()
	}
	return derived, nil
}

func (s *ServerService) checkUnique(ctx context.Context, name, host string, port int, excludeID int64) error {
	exists, err := s.dao.ExistsName(ctx, name, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return s.err.New("服务器名称已存在", nil).ValidWithCtx()
	}
	exists, err = s.dao.ExistsAddr(ctx, host, port, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return s.err.New("主机地址和端口组合已存在", nil).ValidWithCtx()
	}
	return nil
}

// Create 创建服务器，密码加密后落库
func (s *ServerService) Create(ctx context.Context, req *dto.CreateServerRequest) (*model.ServerModel, error) {
	port := req.Port
	if port == 0 {
		port = model.DefaultSSHPort
	}
	status := req.Status
	if status == "" {
		status = model.StatusActive
	}
	name := strings.TrimSpace(req.Name)
	host := strings.TrimSpace(req.Host)
	keyPath := strings.TrimSpace(req.PrivateKeyPath)

	authType, err := s.CheckCredential(req.AuthType, req.Password != "", keyPath != "")
	if err != nil {
		return nil, err
	}
	if err := s.checkUnique(ctx, name, host, port, 0); err != nil {
		return nil, err
	}

	password, err := s.box.Encrypt(req.Password)
	if err != nil {
		return nil, s.err.New("密码加密失败", err).Config()
	}

	server := &model.ServerModel{
		Name:           name,
		Host:           host,
		Port:           port,
		Username:       strings.TrimSpace(req.Username),
		AuthType:       authType,
		Password:       password,
		PrivateKeyPath: keyPath,
		Status:         status,
		Description:    req.Description,
	}
	if err := s.dao.Create(ctx, server); err != nil {
		return nil, err
	}

	s.log.WithField("name", server.Name).Info("服务器创建成功")
	return server, nil
}

// Update 更新服务器。空密码表示不修改；切换认证方式时清空另一种凭证
func (s *ServerService) Update(ctx context.Context, id int64, req *dto.UpdateServerRequest) (*model.ServerModel, error) {
	server, err := s.dao.FindById(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		server.Name = strings.TrimSpace(*req.Name)
	}
	if req.Host != nil {
		server.Host = strings.TrimSpace(*req.Host)
	}
	if req.Port != nil {
		server.Port = *req.Port
	}
	if req.Username != nil {
		server.Username = strings.TrimSpace(*req.Username)
	}
	if req.Status != nil {
		server.Status = *req.Status
	}
	if req.Description != nil {
		server.Description = *req.Description
	}

	authType := ""
	if req.AuthType != nil {
		authType = *req.AuthType
		switch authType {
		case model.AuthPrivateKey:
			server.Password = ""
		case model.AuthPassword:
			server.PrivateKeyPath = ""
		}
	}
	if req.PrivateKeyPath != nil {
		server.PrivateKeyPath = strings.TrimSpace(*req.PrivateKeyPath)
	}
	if req.Password != nil && *req.Password != "" {
		encrypted, err := s.box.Encrypt(*req.Password)
		if err != nil {
			return nil, s.err.New("密码加密失败", err).Config()
		}
		server.Password = encrypted
	}

	server.AuthType, err = s.CheckCredential(authType, server.Password != "", server.PrivateKeyPath != "")
	if err != nil {
		return nil, err
	}
	if err := s.checkUnique(ctx, server.Name, server.Host, server.Port, id); err != nil {
		return nil, err
	}

	_, err = s.dao.UpdateColumnsById(ctx, id, map[string]interface{}{
		"name":             server.Name,
		"host":             server.Host,
		"port":             server.Port,
		"username":         server.Username,
		"auth_type":        server.AuthType,
		"password":         server.Password,
		"private_key_path": server.PrivateKeyPath,
		"status":           server.Status,
		"description":      server.Description,
	})
	if err != nil {
		return nil, err
	}

	s.log.WithField("name", server.Name).Info("服务器更新成功")
	return server, nil
}

// QueryWithPage 分页查询服务器
func (s *ServerService) QueryWithPage(ctx context.Context, req *dto.QueryServerRequest) ([]*model.ServerModel, int64, error) {
	return s.dao.QueryWithPage(ctx, req.Keyword, req.Status, &req.Page)
}

// ListActive 查询所有启用的服务器
func (s *ServerService) ListActive(ctx context.Context) ([]*model.ServerModel, error) {
	return s.dao.ListActive(ctx)
}

// FindByName 根据名称查询服务器
func (s *ServerService) FindByName(ctx context.Context, name string) (*model.ServerModel, error) {
	return s.dao.FindByName(ctx, name)
}

// Target 解密凭证，组装 SSH 连接目标
func (s *ServerService) Target(server *model.ServerModel) (sshx.Target, error) {
	password, err := s.box.Decrypt(server.Password)
	if err != nil {
		return sshx.Target{}, s.err.New("服务器密码解密失败", err).Config()
	}
	return sshx.Target{
		Host:           server.Host,
		Port:           server.Port,
		Username:       server.Username,
		Password:       password,
		PrivateKeyPath: server.PrivateKeyPath,
	}, nil
}
