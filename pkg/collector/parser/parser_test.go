package parser

import (
	"testing"

	errorc "hostpatrol/pkg/core/err"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCPU(t *testing.T) {
	tests := []struct {
		name    string
		out     string
		want    float64
		wantErr bool
	}{
		{
			name: "procps-ng format",
			out: `top - 10:00:01 up 3 days,  2:11,  1 user,  load average: 0.08, 0.03, 0.01
Tasks: 120 total,   1 running, 119 sleeping,   0 stopped,   0 zombie
%Cpu(s):  3.1 us,  1.0 sy,  0.0 ni, 95.5 id,  0.3 wa,  0.0 hi,  0.1 si,  0.0 st
MiB Mem :   7872.3 total,   1024.0 free,   2048.0 used,   4800.3 buff/cache`,
			want: 4.5,
		},
		{
			name: "legacy format",
			out:  "Cpu(s): 12.5%us,  2.5%sy,  0.0%ni, 85.0%id,  0.0%wa,  0.0%hi,  0.0%si,  0.0%st",
			want: 15,
		},
		{
			name: "fully idle",
			out:  "%Cpu(s):  0.0 us,  0.0 sy,  0.0 ni,100.0 id,  0.0 wa",
			want: 0,
		},
		{
			name:    "missing cpu line",
			out:     "Tasks: 120 total",
			wantErr: true,
		},
		{
			name:    "garbled idle",
			out:     "%Cpu(s):  3.1 us, xx id",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCPU(tt.out)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errorc.IsCode(err, errorc.ErrorCodeParse))
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 0.001)
		})
	}
}

func TestParseCPUFromVmstat(t *testing.T) {
	out := `procs -----------memory---------- ---swap-- -----io---- -system-- ------cpu-----
 r  b   swpd   free   buff  cache   si   so    bi    bo   in   cs us sy id wa st
 1  0      0 1048576  20480 409600    0    0     5     8   50  100  2  1 97  0  0
 0  0      0 1048000  20480 409600    0    0     0     0   60  120 10  2 88  0  0`

	got, err := ParseCPUFromVmstat(out)
	require.NoError(t, err)
	assert.InDelta(t, 12.0, got, 0.001)

	_, err = ParseCPUFromVmstat("")
	assert.Error(t, err)

	_, err = ParseCPUFromVmstat(" r  b us sy id\n 1 0 2 1")
	assert.Error(t, err)
}

func TestParseMemory(t *testing.T) {
	out := `               total        used        free      shared  buff/cache   available
Mem:      8589934592  2147483648  1073741824    10485760  5368709120  5368709120
Swap:     2147483648           0  2147483648`

	info, err := ParseMemory(out)
	require.NoError(t, err)
	assert.Equal(t, 25.0, info.UsagePercent)
	assert.Equal(t, 8192.0, info.TotalMB)
	assert.Equal(t, 2048.0, info.UsedMB)
	assert.Equal(t, 1024.0, info.FreeMB)
	assert.Equal(t, 5120.0, info.AvailableMB)
	assert.Equal(t, 8.0, info.TotalGB)
	assert.Equal(t, 2.0, info.UsedGB)
	assert.Equal(t, 1.0, info.FreeGB)
	assert.Equal(t, 5.0, info.AvailableGB)
}

func TestParseMemory_LegacyWithoutAvailable(t *testing.T) {
	out := `             total       used       free     shared    buffers     cached
Mem:    4294967296 1073741824 3221225472          0   10485760  104857600`

	info, err := ParseMemory(out)
	require.NoError(t, err)
	assert.Equal(t, 25.0, info.UsagePercent)
	assert.Equal(t, info.FreeMB, info.AvailableMB)
	assert.Equal(t, 3.0, info.AvailableGB)
}

func TestParseMemory_Rounding(t *testing.T) {
	out := `total used free shared buff/cache available
Mem: 3000000000 1000000000 1500000000 0 500000000 1900000000`

	info, err := ParseMemory(out)
	require.NoError(t, err)
	assert.Equal(t, 33.33, info.UsagePercent)
	assert.Equal(t, 2861.02, info.TotalMB)
	assert.Equal(t, 2.79, info.TotalGB)
}

func TestParseMemory_Malformed(t *testing.T) {
	tests := []string{
		"",
		"Swap: 0 0 0",
		"total used free\nMem: abc 1 2",
		"total used free\nMem: 0 0 0",
	}
	for _, out := range tests {
		info, err := ParseMemory(out)
		assert.Nil(t, info, out)
		assert.Error(t, err, out)
	}
}

func TestParseDisk(t *testing.T) {
	out := `Filesystem      Size  Used Avail Use% Mounted on
/dev/sda1        50G   45G  5.0G  90% /
tmpfs           3.9G     0  3.9G   0% /dev/shm
/dev/sdb1       200G   20G  180G  10% /data
/dev/mapper/vg-home  100G   30G   70G  30% /mnt/my disk`

	rows, err := ParseDisk(out)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, DiskRow{
		Filesystem: "/dev/sda1",
		Size:       "50G",
		Used:       "45G",
		Available:  "5.0G",
		UsePercent: 90,
		MountedOn:  "/",
	}, rows[0])
	assert.Equal(t, "/data", rows[1].MountedOn)
	assert.Equal(t, 10.0, rows[1].UsePercent)
	assert.Equal(t, "/mnt/my disk", rows[2].MountedOn)
}

func TestParseDisk_PartialFailure(t *testing.T) {
	out := `Filesystem      Size  Used Avail Use% Mounted on
/dev/sda1        50G   45G  5.0G   -  /
/dev/sdb1       200G   20G  180G  10% /data`

	rows, err := ParseDisk(out)
	require.Error(t, err)
	assert.True(t, errorc.IsCode(err, errorc.ErrorCodeParse))
	require.Len(t, rows, 1)
	assert.Equal(t, "/dev/sdb1", rows[0].Filesystem)
}

func TestParseDisk_Empty(t *testing.T) {
	rows, err := ParseDisk("Filesystem Size Used Avail Use% Mounted on\n")
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestParseProcesses(t *testing.T) {
	out := `root       812  0.0  0.1  55280  5400 ?        Ss   Oct01   0:00 nginx: master process /usr/sbin/nginx -g daemon on;
www-data   813  1.5  0.3  55900  9800 ?        S    Oct01   1:02 nginx: worker process
broken line`

	procs := ParseProcesses(out)
	require.Len(t, procs, 2)
	assert.Equal(t, Process{
		PID:     812,
		CPU:     0.0,
		Memory:  0.1,
		Command: "nginx: master process /usr/sbin/nginx -g daemon on;",
	}, procs[0])
	assert.Equal(t, 813, procs[1].PID)
	assert.Equal(t, 1.5, procs[1].CPU)

	assert.Empty(t, ParseProcesses(""))
}

func TestParseSystemInfo(t *testing.T) {
	raw := SystemRaw{
		Hostname:     "web-01\n",
		Uptime:       " 10:00:01 up 3 days,  2:11,  1 user,  load average: 0.08, 0.03, 0.01\n",
		OSRelease:    "NAME=\"Ubuntu\"\nVERSION=\"22.04.3 LTS (Jammy Jellyfish)\"\nPRETTY_NAME=\"Ubuntu 22.04.3 LTS\"\nID=ubuntu\n",
		Kernel:       "5.15.0-86-generic\n",
		Architecture: "x86_64\n",
		LoadAvg:      "0.08 0.03 0.01 1/234 5678\n",
		Users:        "2\n",
	}

	info, err := ParseSystemInfo(raw)
	require.NoError(t, err)
	assert.Equal(t, "web-01", info.Hostname)
	assert.Equal(t, "Ubuntu 22.04.3 LTS", info.OS)
	assert.Equal(t, "5.15.0-86-generic", info.Kernel)
	assert.Equal(t, "x86_64", info.Architecture)
	assert.Equal(t, [3]float64{0.08, 0.03, 0.01}, info.LoadAverage)
	assert.Equal(t, 2, info.Users)
}

func TestParseSystemInfo_Partial(t *testing.T) {
	info, err := ParseSystemInfo(SystemRaw{
		Hostname: "db-01",
		LoadAvg:  "garbage",
		Users:    "3",
	})
	require.Error(t, err)
	assert.Equal(t, "db-01", info.Hostname)
	assert.Equal(t, 3, info.Users)
	assert.Equal(t, [3]float64{}, info.LoadAverage)
}

func TestParseOSRelease(t *testing.T) {
	assert.Equal(t, "CentOS Linux 7", ParseOSRelease("NAME=\"CentOS Linux\"\nVERSION=\"7\"\n"))
	assert.Equal(t, "Linux host 5.4.0 x86_64", ParseOSRelease("Linux host 5.4.0 x86_64\n"))
	assert.Equal(t, "", ParseOSRelease(""))
}
