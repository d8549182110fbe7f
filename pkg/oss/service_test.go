package oss

import (
	"testing"
	"time"

	"hostpatrol/pkg/core/config"
	errorc "hostpatrol/pkg/core/err"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegionFromEndpoint(t *testing.T) {
	assert.Equal(t, "cn-hangzhou", RegionFromEndpoint("oss-cn-hangzhou.aliyuncs.com"))
	assert.Equal(t, "cn-beijing", RegionFromEndpoint("https://oss-cn-beijing-internal.aliyuncs.com"))
}

func TestNewAliyunService_Incomplete(t *testing.T) {
	_, err := NewAliyunService(&config.OssConfig{Endpoint: "oss-cn-hangzhou.aliyuncs.com", Bucket: "b"})
	require.Error(t, err)
	assert.True(t, errorc.IsCode(err, errorc.ErrorCodeConfig))
}

func TestObjectKey(t *testing.T) {
	s, err := NewAliyunService(&config.OssConfig{
		Endpoint:        "oss-cn-hangzhou.aliyuncs.com",
		Bucket:          "patrol",
		AccessKeyID:     "id",
		AccessKeySecret: "secret",
		FolderPath:      "/ops/reports/",
	})
	require.NoError(t, err)

	key := s.ObjectKey("/var/reports/manual_report_20240102_030405.html", time.Date(2024, 1, 2, 3, 4, 5, 0, time.Local))
	assert.Regexp(t, `^ops/reports/20240102/[0-9a-f]{8}_manual_report_20240102_030405\.html$`, key)
}
