package weather

import "errors"

var (
	// ErrAuth is returned when the API key is missing or rejected upstream.
	ErrAuth = errors.New("weather api key missing or invalid")
	// ErrNotFound is returned when the upstream cannot resolve the place name.
	ErrNotFound = errors.New("city not found")
	// ErrRateLimited is returned on upstream 429. It is never retried here.
	ErrRateLimited = errors.New("weather api rate limit exceeded")
	// ErrNetwork covers transport failures and any other non-2xx response.
	ErrNetwork = errors.New("weather api unavailable")
)

// UserMessage returns the fixed-locale message shown to the user for err.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrAuth):
		return "API anahtarı bulunamadı veya geçersiz. Lütfen OPENWEATHER_API_KEY değişkenini kontrol edin."
	case errors.Is(err, ErrNotFound):
		return "Şehir bulunamadı. Lütfen şehir adını kontrol edin."
	case errors.Is(err, ErrRateLimited):
		return "Çok fazla istek yapıldı. Lütfen birkaç dakika sonra tekrar deneyin."
	default:
		return "Hava durumu bilgisi alınamadı. Lütfen daha sonra tekrar deneyin."
	}
}
