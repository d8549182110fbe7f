package app

import (
	"context"
	"crypto/subtle"

	"hostpatrol/pkg/core/config"
	errorc "hostpatrol/pkg/core/err"
	"hostpatrol/pkg/core/logger"
	"hostpatrol/pkg/core/security"
	"hostpatrol/system/auth/internal/model/dto"

	"golang.org/x/crypto/bcrypt"
)

// App 单管理员登录，账号与 bcrypt 密码哈希来自配置文件
type App struct {
	admin config.AdminConfig
	auth  *security.AdminAuth
	log   *logger.Log
	err   *errorc.ErrorBuilder
}

func NewApp(admin config.AdminConfig, auth *security.AdminAuth) *App {
	return &App{
		admin: admin,
		auth:  auth,
		log:   logger.GetLogger().WithEntryName("AuthApp"),
		err:   errorc.NewErrorBuilder("AuthApp"),
	}
}

func (a *App) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResult, error) {
	if a.admin.Username == "" || a.admin.PasswordHash == "" {
		return nil, a.err.New("未配置管理员账号", nil).Config()
	}

	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(a.admin.Username)) == 1
	// 用户名不匹配时同样执行一次哈希比较
	passErr := bcrypt.CompareHashAndPassword([]byte(a.admin.PasswordHash), []byte(req.Password))
	if !userOK || passErr != nil {
		a.log.WithField("username", req.Username).Warn("管理员登录失败")
		return nil, a.err.New("用户名或密码错误", nil).ValidWithCtx()
	}

	token, expiresAt, err := a.auth.CreateAdminToken(a.admin.Username)
	if err != nil {
		return nil, a.err.New("创建登录令牌失败", err)
	}
	a.log.WithField("username", req.Username).Info("管理员登录成功")
	return &dto.LoginResult{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
		Username:    a.admin.Username,
	}, nil
}

// Logout 注销当前请求携带的令牌
func (a *App) Logout(ctx context.Context) error {
	claims, err := security.GetAdminClaimsByCtx(ctx)
	if err != nil {
		return err
	}
	if err := a.auth.Logout(ctx, claims); err != nil {
		return a.err.New("注销失败", err)
	}
	return nil
}

// HashPassword 生成配置文件使用的密码哈希
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", errorc.NewErrorBuilder("AuthApp").New("密码散列失败", err)
	}
	return string(hash), nil
}
