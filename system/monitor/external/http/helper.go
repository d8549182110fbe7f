package http

import "fmt"

func bulkMessage(success, failed int) string {
	if failed == 0 {
		return fmt.Sprintf("成功删除 %d 条记录", success)
	}
	return fmt.Sprintf("成功删除 %d 条记录，失败 %d 条", success, failed)
}
