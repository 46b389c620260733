package translog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"rover_go/internal/config"
	"rover_go/internal/models"
	"rover_go/pkg/logger"
)

// EntryHandler é um tipo de função para receber novas entradas do log
type EntryHandler func(entry models.LogEntry)

// FileInfo descreve um arquivo de log em disco
type FileInfo struct {
	Filename string `json:"filename"`
	Path     string `json:"path"`
	Size     int64  `json:"size"`
	Modified string `json:"modified"`
}

// Stats resume o estado do log de transmissão
type Stats struct {
	TotalFiles      int     `json:"total_files"`
	TotalSizeBytes  int64   `json:"total_size_bytes"`
	TotalSizeMB     float64 `json:"total_size_mb"`
	CurrentLog      string  `json:"current_log"`
	EntriesInMemory int     `json:"entries_in_memory"`
}

// Manager mantém o log de transmissão do rover: um anel em memória para o
// dashboard e arquivos em disco com rotação por tamanho e limpeza por idade
type Manager struct {
	cfg config.LogConfig

	mu         sync.RWMutex
	entries    []models.LogEntry
	currentLog string

	handlersLock sync.RWMutex
	handlers     []EntryHandler
}

// NewManager cria um novo gerenciador do log de transmissão
func NewManager(cfg config.LogConfig) (*Manager, error) {
	if err := os.MkdirAll(cfg.Directory, 0755); err != nil {
		return nil, fmt.Errorf("erro ao criar diretório de log: %w", err)
	}

	m := &Manager{
		cfg:     cfg,
		entries: make([]models.LogEntry, 0, cfg.MemoryEntries),
	}

	if err := m.createNewLog(); err != nil {
		return nil, err
	}

	return m, nil
}

// RegisterHandler registra uma função para receber novas entradas
func (m *Manager) RegisterHandler(handler EntryHandler) {
	m.handlersLock.Lock()
	defer m.handlersLock.Unlock()
	m.handlers = append(m.handlers, handler)
}

// Append adiciona uma entrada ao log de transmissão
func (m *Manager) Append(severity models.LogSeverity, message string) {
	entry := models.LogEntry{
		Timestamp: time.Now(),
		Severity:  severity,
		Message:   message,
	}

	m.mu.Lock()
	m.entries = append(m.entries, entry)
	// Manter apenas as últimas N entradas em memória
	if len(m.entries) > m.cfg.MemoryEntries {
		m.entries = m.entries[len(m.entries)-m.cfg.MemoryEntries:]
	}
	current := m.currentLog
	m.mu.Unlock()

	// Escrever no arquivo corrente
	if err := m.writeToFile(current, entry); err != nil {
		logger.Errorf("Erro ao gravar log de transmissão: %v", err)
	}

	m.checkRotation()
	m.notifyHandlers(entry)
}

// Appendf adiciona uma entrada formatada ao log de transmissão
func (m *Manager) Appendf(severity models.LogSeverity, format string, args ...interface{}) {
	m.Append(severity, fmt.Sprintf(format, args...))
}

// Recent retorna as entradas mais recentes, da mais antiga para a mais nova
func (m *Manager) Recent(count int) []models.LogEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if count <= 0 || count > len(m.entries) {
		count = len(m.entries)
	}

	out := make([]models.LogEntry, count)
	copy(out, m.entries[len(m.entries)-count:])
	return out
}

// Export copia o log da sessão atual para um novo arquivo e retorna o caminho
func (m *Manager) Export() (string, error) {
	m.mu.RLock()
	current := m.currentLog
	m.mu.RUnlock()

	data, err := os.ReadFile(current)
	if err != nil {
		return "", fmt.Errorf("erro ao ler log atual: %w", err)
	}

	filename := fmt.Sprintf("exported_log_%s.txt", time.Now().Format("20060102_150405"))
	exportPath := filepath.Join(m.cfg.Directory, filename)

	if err := os.WriteFile(exportPath, data, 0644); err != nil {
		return "", fmt.Errorf("erro ao exportar log: %w", err)
	}

	logger.Infof("Log de transmissão exportado: %s", exportPath)
	return exportPath, nil
}

// Files lista os arquivos de log em disco, do mais recente para o mais antigo
func (m *Manager) Files() ([]FileInfo, error) {
	dirEntries, err := os.ReadDir(m.cfg.Directory)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar arquivos de log: %w", err)
	}

	files := make([]FileInfo, 0, len(dirEntries))
	for _, de := range dirEntries {
		if de.IsDir() || filepath.Ext(de.Name()) != ".txt" {
			continue
		}

		info, err := de.Info()
		if err != nil {
			continue
		}

		files = append(files, FileInfo{
			Filename: de.Name(),
			Path:     filepath.Join(m.cfg.Directory, de.Name()),
			Size:     info.Size(),
			Modified: info.ModTime().Format("2006-01-02 15:04:05"),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Modified > files[j].Modified
	})

	return files, nil
}

// Stats retorna estatísticas do log de transmissão
func (m *Manager) Stats() Stats {
	files, _ := m.Files()

	var totalSize int64
	for _, f := range files {
		totalSize += f.Size
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	return Stats{
		TotalFiles:      len(files),
		TotalSizeBytes:  totalSize,
		TotalSizeMB:     float64(totalSize) / (1024 * 1024),
		CurrentLog:      filepath.Base(m.currentLog),
		EntriesInMemory: len(m.entries),
	}
}

// CleanupOldLogs remove arquivos mais antigos que o período de retenção
func (m *Manager) CleanupOldLogs() int {
	cutoff := time.Now().AddDate(0, 0, -m.cfg.RetentionDays)

	m.mu.RLock()
	current := m.currentLog
	m.mu.RUnlock()

	files, err := m.Files()
	if err != nil {
		return 0
	}

	removed := 0
	for _, f := range files {
		if f.Path == current {
			continue
		}

		info, err := os.Stat(f.Path)
		if err != nil {
			continue
		}

		if info.ModTime().Before(cutoff) {
			if err := os.Remove(f.Path); err == nil {
				removed++
				logger.Infof("Log antigo removido: %s", f.Filename)
			}
		}
	}

	return removed
}

// createNewLog cria um novo arquivo de log com cabeçalho de sessão.
// Nunca reaproveita um caminho existente: duas rotações no mesmo
// segundo ganham um sufixo numérico em vez de truncar o log anterior.
func (m *Manager) createNewLog() error {
	base := fmt.Sprintf("rover_log_%s", time.Now().Format("20060102_150405"))

	path := filepath.Join(m.cfg.Directory, base+".txt")
	for seq := 1; ; seq++ {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			break
		}
		path = filepath.Join(m.cfg.Directory, fmt.Sprintf("%s_%d.txt", base, seq))
	}

	header := fmt.Sprintf("%s\nLUNAR ROVER TRANSMISSION LOG\nSession Started: %s\n%s\n\n",
		headerBar, time.Now().Format("2006-01-02 15:04:05"), headerBar)

	if err := os.WriteFile(path, []byte(header), 0644); err != nil {
		return fmt.Errorf("erro ao criar arquivo de log: %w", err)
	}

	m.mu.Lock()
	m.currentLog = path
	m.mu.Unlock()

	logger.Infof("Novo log de transmissão criado: %s", path)
	return nil
}

const headerBar = "================================================================================"

// writeToFile grava uma entrada formatada no arquivo
func (m *Manager) writeToFile(path string, entry models.LogEntry) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	prefix := severityPrefix(entry.Severity)
	line := fmt.Sprintf("%s %s %s\n",
		entry.Timestamp.Format("2006-01-02 15:04:05.000"), prefix, entry.Message)

	_, err = f.WriteString(line)
	return err
}

// checkRotation inicia um novo arquivo quando o atual excede o limite
func (m *Manager) checkRotation() {
	m.mu.RLock()
	current := m.currentLog
	m.mu.RUnlock()

	info, err := os.Stat(current)
	if err != nil {
		return
	}

	if info.Size() >= m.cfg.MaxSizeBytes {
		logger.Infof("Limite de tamanho do log atingido (%d bytes), rotacionando", info.Size())
		if err := m.createNewLog(); err != nil {
			logger.Errorf("Erro ao rotacionar log: %v", err)
		}
	}
}

// notifyHandlers notifica todos os handlers registrados
func (m *Manager) notifyHandlers(entry models.LogEntry) {
	m.handlersLock.RLock()
	handlers := m.handlers
	m.handlersLock.RUnlock()

	for _, handler := range handlers {
		handler(entry)
	}
}

func severityPrefix(severity models.LogSeverity) string {
	switch severity {
	case models.LogCommand:
		return "[CMD]"
	case models.LogSuccess:
		return "[OK]"
	case models.LogError:
		return "[ERROR]"
	case models.LogWarning:
		return "[WARN]"
	default:
		return "[INFO]"
	}
}
