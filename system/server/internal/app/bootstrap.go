package app

import (
	"context"

	"hostpatrol/pkg/core/config"
	errorc "hostpatrol/pkg/core/err"
	"hostpatrol/system/server/internal/model/dto"
)

// EnsureBootstrapServers 启动时写入配置中的种子服务器，同名服务器已存在则跳过
func (a *App) EnsureBootstrapServers(ctx context.Context, servers []config.BootstrapServer) error {
	if len(servers) == 0 {
		a.log.Info("没有配置 bootstrap 服务器，跳过初始化")
		return nil
	}

	a.log.WithField("count", len(servers)).Info("开始初始化 bootstrap 服务器")

	for _, bs := range servers {
		_, err := a.ServerService.FindByName(ctx, bs.Name)
		if err == nil {
			continue
		}
		if !errorc.IsNotFound(err) {
			return err
		}

		_, err = a.ServerService.Create(ctx, &dto.CreateServerRequest{
			Name:           bs.Name,
			Host:           bs.Host,
			Port:           bs.Port,
			Username:       bs.Username,
			AuthType:       bs.AuthType,
			Password:       bs.Password,
			PrivateKeyPath: bs.PrivateKeyPath,
			Description:    bs.Description,
		})
		if err != nil {
			a.log.WithErr(err).WithField("name", bs.Name).Error("初始化 bootstrap 服务器失败")
			return err
		}

		a.log.WithField("name", bs.Name).Info("bootstrap 服务器初始化成功")
	}

	a.log.Info("bootstrap 服务器初始化完成")
	return nil
}
