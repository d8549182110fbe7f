package common

// BulkItemResult 批量操作中单个 ID 的结果
type BulkItemResult struct {
	ID      int64  `json:"id"`
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// BulkResult 批量操作汇总，Results 顺序与请求 ID 顺序一致
type BulkResult struct {
	Total        int              `json:"total"`
	SuccessCount int              `json:"success_count"`
	FailedCount  int              `json:"failed_count"`
	Results      []BulkItemResult `json:"results"`
}

// Add 追加一条结果并更新计数
func (r *BulkResult) Add(item BulkItemResult) {
	r.Total++
	if item.Success {
		r.SuccessCount++
	} else {
		r.FailedCount++
	}
	r.Results = append(r.Results, item)
}

// SucceededIDs 成功项的 ID 列表
func (r *BulkResult) SucceededIDs() []int64 {
	ids := make([]int64, 0, r.SuccessCount)
	for _, item := range r.Results {
		if item.Success {
			ids = append(ids, item.ID)
		}
	}
	return ids
}
