package translog

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rover_go/internal/config"
	"rover_go/internal/models"
)

func newTestManager(t *testing.T, memoryEntries int, maxSizeBytes int64) *Manager {
	t.Helper()

	m, err := NewManager(config.LogConfig{
		Directory:     t.TempDir(),
		MaxSizeBytes:  maxSizeBytes,
		RetentionDays: 30,
		MemoryEntries: memoryEntries,
	})
	require.NoError(t, err)
	return m
}

func TestNewManagerCreatesSessionLog(t *testing.T) {
	m := newTestManager(t, 10, 1<<20)

	stats := m.Stats()
	assert.Equal(t, 1, stats.TotalFiles)
	assert.True(t, strings.HasPrefix(stats.CurrentLog, "rover_log_"))

	files, err := m.Files()
	require.NoError(t, err)
	require.Len(t, files, 1)

	data, err := os.ReadFile(files[0].Path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "LUNAR ROVER TRANSMISSION LOG")
	assert.Contains(t, string(data), "Session Started:")
}

func TestAppendAndRecentOrdering(t *testing.T) {
	m := newTestManager(t, 10, 1<<20)

	m.Append(models.LogCommand, "primeira")
	m.Append(models.LogSuccess, "segunda")
	m.Append(models.LogError, "terceira")

	entries := m.Recent(0)
	require.Len(t, entries, 3)
	assert.Equal(t, "primeira", entries[0].Message)
	assert.Equal(t, "terceira", entries[2].Message)

	// Pedindo menos, vêm as mais recentes em ordem cronológica
	entries = m.Recent(2)
	require.Len(t, entries, 2)
	assert.Equal(t, "segunda", entries[0].Message)
	assert.Equal(t, "terceira", entries[1].Message)
}

func TestMemoryRingDropsOldest(t *testing.T) {
	m := newTestManager(t, 5, 1<<20)

	for i := 0; i < 8; i++ {
		m.Appendf(models.LogInfo, "entrada %d", i)
	}

	entries := m.Recent(0)
	require.Len(t, entries, 5)
	assert.Equal(t, "entrada 3", entries[0].Message)
	assert.Equal(t, "entrada 7", entries[4].Message)
}

func TestFilePersistenceUsesSeverityPrefixes(t *testing.T) {
	m := newTestManager(t, 10, 1<<20)

	m.Append(models.LogCommand, "comando enviado")
	m.Append(models.LogSuccess, "comando executado")
	m.Append(models.LogError, "rover atolado")
	m.Append(models.LogWarning, "derrapagem alta")
	m.Append(models.LogInfo, "modo alterado")

	stats := m.Stats()
	files, err := m.Files()
	require.NoError(t, err)

	var content string
	for _, f := range files {
		if f.Filename == stats.CurrentLog {
			data, err := os.ReadFile(f.Path)
			require.NoError(t, err)
			content = string(data)
		}
	}

	assert.Contains(t, content, "[CMD] comando enviado")
	assert.Contains(t, content, "[OK] comando executado")
	assert.Contains(t, content, "[ERROR] rover atolado")
	assert.Contains(t, content, "[WARN] derrapagem alta")
	assert.Contains(t, content, "[INFO] modo alterado")
}

func TestRotationCreatesNewFile(t *testing.T) {
	// Limite minúsculo: o cabeçalho da sessão já excede e cada
	// entrada dispara rotação
	m := newTestManager(t, 10, 64)

	m.Append(models.LogInfo, "primeira entrada")
	m.Append(models.LogInfo, "segunda entrada")

	// Mesmo com todas as rotações dentro do mesmo segundo, cada
	// sessão ganha um arquivo próprio
	stats := m.Stats()
	assert.GreaterOrEqual(t, stats.TotalFiles, 3)

	files, err := m.Files()
	require.NoError(t, err)
	seen := make(map[string]bool)
	for _, f := range files {
		assert.False(t, seen[f.Filename], f.Filename)
		seen[f.Filename] = true
	}
}

func TestRotationKeepsEarlierEntries(t *testing.T) {
	m := newTestManager(t, 10, 64)

	m.Append(models.LogInfo, "entrada anterior à rotação")
	m.Append(models.LogInfo, "entrada posterior à rotação")

	// Nenhuma rotação pode truncar um arquivo já gravado
	files, err := m.Files()
	require.NoError(t, err)

	var all strings.Builder
	for _, f := range files {
		data, err := os.ReadFile(f.Path)
		require.NoError(t, err)
		all.Write(data)
	}

	assert.Contains(t, all.String(), "entrada anterior à rotação")
	assert.Contains(t, all.String(), "entrada posterior à rotação")
}

func TestExportCopiesCurrentSession(t *testing.T) {
	m := newTestManager(t, 10, 1<<20)
	m.Append(models.LogCommand, "comando exportável")

	path, err := m.Export()
	require.NoError(t, err)
	assert.Contains(t, path, "exported_log_")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "comando exportável")
}

func TestStats(t *testing.T) {
	m := newTestManager(t, 10, 1<<20)

	m.Append(models.LogInfo, "uma")
	m.Append(models.LogInfo, "duas")

	stats := m.Stats()
	assert.Equal(t, 2, stats.EntriesInMemory)
	assert.Greater(t, stats.TotalSizeBytes, int64(0))
	assert.InDelta(t, float64(stats.TotalSizeBytes)/(1024*1024), stats.TotalSizeMB, 0.0001)
}

func TestHandlersReceiveEntries(t *testing.T) {
	m := newTestManager(t, 10, 1<<20)

	var received []models.LogEntry
	m.RegisterHandler(func(entry models.LogEntry) {
		received = append(received, entry)
	})

	m.Append(models.LogCommand, "notificada")

	require.Len(t, received, 1)
	assert.Equal(t, models.LogCommand, received[0].Severity)
	assert.Equal(t, "notificada", received[0].Message)
}

func TestCleanupOldLogsSkipsCurrent(t *testing.T) {
	m := newTestManager(t, 10, 1<<20)

	// Nenhum arquivo além do atual, nada a remover
	assert.Equal(t, 0, m.CleanupOldLogs())
}
