package app

import (
	"context"
	"fmt"
	"math"

	errorc "hostpatrol/pkg/core/err"
	"hostpatrol/pkg/sshx"
	"hostpatrol/system/server/internal/model"
	"hostpatrol/system/server/internal/model/dto"

	"github.com/sourcegraph/conc/pool"
)

func (a *App) test(ctx context.Context, target sshx.Target) dto.TestResult {
	result := dto.TestResult{ServerHost: target.Addr()}

	ctx, cancel := context.WithTimeout(ctx, a.testTimeout)
	defer cancel()

	elapsed, err := a.tester.TestConnection(ctx, target)
	result.ResponseTime = math.Round(elapsed.Seconds()*1000) / 1000
	if err != nil {
		result.Message = errorc.ParseError(err).Message()
		return result
	}
	result.Success = true
	result.Message = fmt.Sprintf("连接成功，耗时 %.3f 秒", result.ResponseTime)
	return result
}

// TestServer 测试已保存服务器的连通性，连接失败体现在结果中而不是错误返回
func (a *App) TestServer(ctx context.Context, id int64) (*dto.TestResult, error) {
	server, err := a.ServerService.FindById(ctx, id)
	if err != nil {
		return nil, err
	}
	result := a.testServer(ctx, server)
	return &result, nil
}

func (a *App) testServer(ctx context.Context, server *model.ServerModel) dto.TestResult {
	target, err := a.ServerService.Target(server)
	if err != nil {
		return dto.TestResult{
			ServerID:   server.ID,
			ServerName: server.Name,
			ServerHost: sshx.Target{Host: server.Host, Port: server.Port}.Addr(),
			Message:    errorc.ParseError(err).Message(),
		}
	}
	result := a.test(ctx, target)
	result.ServerID = server.ID
	result.ServerName = server.Name
	return result
}

// TestAdhoc 测试尚未保存的连接参数
func (a *App) TestAdhoc(ctx context.Context, req *dto.TestConnectionRequest) (*dto.TestResult, error) {
	if _, err := a.ServerService.CheckCredential("", req.Password != "", req.PrivateKeyPath != ""); err != nil {
		return nil, err
	}
	port := req.Port
	if port == 0 {
		port = model.DefaultSSHPort
	}
	result := a.test(ctx, sshx.Target{
		Host:           req.Host,
		Port:           port,
		Username:       req.Username,
		Password:       req.Password,
		PrivateKeyPath: req.PrivateKeyPath,
	})
	return &result, nil
}

// BatchTest 并发测试多台服务器，结果顺序与请求一致，不存在的 ID 记为失败
func (a *App) BatchTest(ctx context.Context, ids []int64) ([]dto.TestResult, error) {
	servers, err := a.ServerService.Dao().FindByIds(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]*model.ServerModel, len(servers))
	for _, s := range servers {
		byID[s.ID] = s
	}

	results := make([]dto.TestResult, len(ids))
	p := pool.New().WithMaxGoroutines(a.testWorkers)
	for i, id := range ids {
		server, ok := byID[id]
		if !ok {
			results[i] = dto.TestResult{ServerID: id, ServerName: fmt.Sprintf("服务器%d", id), ServerHost: "N/A", Message: "服务器不存在"}
			continue
		}
		p.Go(func() {
			results[i] = a.testServer(ctx, server)
		})
	}
	p.Wait()
	return results, nil
}
