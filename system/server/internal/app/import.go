package app

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"

	errorc "hostpatrol/pkg/core/err"
	"hostpatrol/system/server/internal/model/dto"
	"hostpatrol/utils"
)

// utf8BOM 让 Excel 正确识别中文表头
const utf8BOM = "\xEF\xBB\xBF"

var (
	serverTemplate = [][]string{
		{"name", "host", "port", "username", "password", "private_key_path", "description", "status"},
		{"Web服务器01", "192.168.1.100", "22", "root", "password123", "", "Web应用服务器", "active"},
		{"DB服务器01", "192.168.1.101", "22", "admin", "", "/root/.ssh/id_rsa", "数据库服务器", "active"},
	}
	serviceTemplate = [][]string{
		{"server_name", "service_name", "process_name", "is_monitoring", "description"},
		{"Web服务器01", "Nginx服务", "nginx", "true", "Web服务器"},
		{"Web服务器01", "PHP-FPM服务", "php-fpm", "true", "PHP处理服务"},
		{"DB服务器01", "MySQL服务", "mysqld", "true", "数据库服务"},
	}
)

func renderCSV(rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(utf8BOM)
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(rows); err != nil {
		return nil, errorc.New("生成导入模板失败", err)
	}
	return buf.Bytes(), nil
}

// ServerTemplate 服务器批量导入模板（CSV）
func (a *App) ServerTemplate() ([]byte, error) {
	return renderCSV(serverTemplate)
}

// ServiceTemplate 服务配置批量导入模板（CSV）
func (a *App) ServiceTemplate() ([]byte, error) {
	return renderCSV(serviceTemplate)
}

// ImportServers 逐条创建服务器，单条失败记录原因后继续
func (a *App) ImportServers(ctx context.Context, items []dto.ImportServerItem) *dto.ImportResult {
	result := &dto.ImportResult{Total: len(items), FailedItems: []dto.ImportFailure{}}
	for i := range items {
		item := &items[i]
		if msg, err := utils.Validate(item); err != nil {
			result.Fail(item.Name, msg)
			continue
		}
		if _, err := a.CreateServer(ctx, item); err != nil {
			result.Fail(item.Name, errorc.ParseError(err).Message())
			continue
		}
		result.Success++
	}
	a.log.WithField("success", result.Success).WithField("failed", result.Failed).Info("服务器批量导入完成")
	return result
}

// ImportServices 按服务器名称关联后逐条创建服务配置
func (a *App) ImportServices(ctx context.Context, items []dto.ImportServiceItem) *dto.ImportResult {
	result := &dto.ImportResult{Total: len(items), FailedItems: []dto.ImportFailure{}}
	serverIDs := make(map[string]int64)

	for i := range items {
		item := &items[i]
		if msg, err := utils.Validate(item); err != nil {
			result.Fail(item.ServiceName, msg)
			continue
		}

		serverID, ok := serverIDs[item.ServerName]
		if !ok {
			server, err := a.ServerService.FindByName(ctx, item.ServerName)
			if err != nil {
				result.Fail(item.ServiceName, fmt.Sprintf("服务器 '%s' 不存在", item.ServerName))
				continue
			}
			serverID = server.ID
			serverIDs[item.ServerName] = serverID
		}

		_, err := a.ServiceConfigSvc.Create(ctx, &dto.CreateServiceRequest{
			ServerID:     serverID,
			ServiceName:  item.ServiceName,
			ProcessName:  item.ProcessName,
			IsMonitoring: item.IsMonitoring,
			Description:  item.Description,
		})
		if err != nil {
			result.Fail(item.ServiceName, errorc.ParseError(err).Message())
			continue
		}
		result.Success++
	}
	a.log.WithField("success", result.Success).WithField("failed", result.Failed).Info("服务配置批量导入完成")
	return result
}
