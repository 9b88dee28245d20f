package clients

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// maxAttempts — число попыток запроса к внешнему сервису, включая первую
// (спецификация: "a fixed retry count (3)").
const maxAttempts = 3

// retryDelay — постоянная задержка между попытками; округляет Python
// прототип к фиксированной, а не экспоненциальной задержке, как требует
// спецификация ("retried with fixed small delay").
const retryDelay = 200 * time.Millisecond

// permanentStatusError оборачивает 4xx-ответы, которые withRetry не должен
// повторять.
type permanentStatusError struct {
	statusCode int
}

func (e *permanentStatusError) Error() string {
	return http.StatusText(e.statusCode)
}

// nonRetryableStatus помечает статус-код как не подлежащий повтору (любой
// 4xx); withRetry остановится немедленно при такой ошибке.
func nonRetryableStatus(statusCode int) error {
	return backoff.Permanent(&permanentStatusError{statusCode: statusCode})
}

// withRetry выполняет fn с постоянной задержкой между попытками, до
// maxAttempts раз, останавливаясь немедленно на ошибках, обёрнутых через
// nonRetryableStatus (4xx). Сетевые ошибки и 5xx (обёрнутые вызывающим
// кодом как обычная error) повторяются.
func withRetry(ctx context.Context, fn func() error) error {
	return withRetryN(ctx, maxAttempts, fn)
}

// withRetryN — как withRetry, но с явным числом попыток; используется
// поисковым клиентом, чья политика ретраев (ES_MAX_RETRIES) конфигурируется
// отдельно от трёх NLP-сервисов.
func withRetryN(ctx context.Context, attempts int, fn func() error) error {
	if attempts < 1 {
		attempts = 1
	}
	policy := backoff.WithMaxRetries(backoff.NewConstantBackOff(retryDelay), uint64(attempts-1))
	return backoff.Retry(func() error {
		err := fn()
		if err == nil {
			return nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return backoff.Permanent(err)
		}
		return err
	}, backoff.WithContext(policy, ctx))
}
