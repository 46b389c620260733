package rover

import "errors"

// Erros de rejeição do núcleo de comandos. Nenhum deles é fatal:
// Busy e Stuck são recuperáveis pelo operador, NotReady pela saída do
// estado de erro e UnstuckFailed por nova tentativa.
var (
	// ErrBusy indica que já existe um comando em trânsito
	ErrBusy = errors.New("rover ocupado: comando em execução")

	// ErrStuck indica que o rover está atolado e movimentos são rejeitados
	ErrStuck = errors.New("rover atolado: use a operação de desatolamento")

	// ErrNotReady indica que o modo autônomo não pode iniciar em estado de erro
	ErrNotReady = errors.New("rover em estado de erro: modo autônomo indisponível")

	// ErrUnstuckFailed indica falha probabilística no desatolamento
	ErrUnstuckFailed = errors.New("tentativa de desatolamento falhou")
)
