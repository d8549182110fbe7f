package mvc

import (
	"context"

	errorc "hostpatrol/pkg/core/err"
	"hostpatrol/pkg/core/model/common"
)

// BulkDelete 逐个删除，单个失败不影响其他 ID。重复 ID 只处理一次。
func BulkDelete(ctx context.Context, ids []int64, del func(ctx context.Context, id int64) error) *common.BulkResult {
	result := &common.BulkResult{Results: make([]common.BulkItemResult, 0, len(ids))}
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}

		item := common.BulkItemResult{ID: id, Success: true, Message: "删除成功"}
		if err := del(ctx, id); err != nil {
			item.Success = false
			if errorc.IsNotFound(err) {
				item.Message = "记录不存在"
			} else {
				item.Message = errorc.ParseError(err).Message()
			}
		}
		result.Add(item)
	}
	return result
}
