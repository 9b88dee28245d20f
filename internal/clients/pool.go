// Package clients реализует пул HTTP-клиентов ко внешним сервисам
// (разбор атрибутов, нормализация единиц измерения, семантическое
// сравнение строк) и клиент поискового индекса, с общей политикой
// повторов. Пул строит для каждого сервиса и необязательный ограничитель
// скорости (rate.Limiter), но клиенты сервисов его не применяют.
package clients

import (
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// ServiceConfig описывает один удалённый сервис: базовый URL и параметры
// его HTTP-клиента.
type ServiceConfig struct {
	BaseURL             string
	Timeout             time.Duration
	MaxIdleConnsPerHost int
	// RateLimit — запросов в секунду; 0 означает отсутствие ограничения.
	RateLimit float64
	// RateBurst — размер всплеска для RateLimit; если 0, берётся 1.
	RateBurst int
}

func (c ServiceConfig) withDefaults() ServiceConfig {
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	if c.MaxIdleConnsPerHost <= 0 {
		c.MaxIdleConnsPerHost = 15
	}
	return c
}

// Config собирает настройки трёх внешних NLP-сервисов, используемых
// матчером.
type Config struct {
	AttrParser      ServiceConfig
	UnitNormalizer  ServiceConfig
	SemanticMatcher ServiceConfig
}

type serviceHandle struct {
	once     sync.Once
	client   *http.Client
	limiter  *rate.Limiter
	config   ServiceConfig
}

// Pool — процессно-общий пул HTTP-клиентов, один на сервис, с ленивой
// инициализацией под sync.Once на сервис. В отличие от Python-прототипа
// (`SimpleConnectionPool`, словарь сессий под `asyncio.Lock`), здесь нет
// скрытого глобального состояния: вызывающий код явно создаёт *Pool через
// NewPool и передаёт его клиентам конструкторами.
type Pool struct {
	attrParser      *serviceHandle
	unitNormalizer  *serviceHandle
	semanticMatcher *serviceHandle
}

// NewPool строит процессно-общий пул для заданной конфигурации трёх
// сервисов. Сами *http.Client создаются лениво при первом обращении.
func NewPool(cfg Config) *Pool {
	return &Pool{
		attrParser:      &serviceHandle{config: cfg.AttrParser.withDefaults()},
		unitNormalizer:  &serviceHandle{config: cfg.UnitNormalizer.withDefaults()},
		semanticMatcher: &serviceHandle{config: cfg.SemanticMatcher.withDefaults()},
	}
}

func (h *serviceHandle) ensure() {
	h.once.Do(func() {
		transport := &http.Transport{
			MaxIdleConnsPerHost: h.config.MaxIdleConnsPerHost,
			IdleConnTimeout:     60 * time.Second,
		}
		h.client = &http.Client{Transport: transport, Timeout: h.config.Timeout}

		if h.config.RateLimit > 0 {
			burst := h.config.RateBurst
			if burst <= 0 {
				burst = 1
			}
			h.limiter = rate.NewLimiter(rate.Limit(h.config.RateLimit), burst)
		}
	})
}

func (h *serviceHandle) httpClient() *http.Client {
	h.ensure()
	return h.client
}

func (h *serviceHandle) rateLimiter() *rate.Limiter {
	h.ensure()
	return h.limiter
}

// AttrParserHandle, UnitNormalizerHandle, SemanticMatcherHandle возвращают
// базовый URL, клиент и лимитер (nil при RateLimit = 0) для каждого из трёх
// сервисов. Конструкторы в attr_parser.go/unit_normalizer.go/
// semantic_matcher.go берут URL и клиент; лимитер ими отбрасывается.
func (p *Pool) AttrParserHandle() (string, *http.Client, *rate.Limiter) {
	return p.attrParser.config.BaseURL, p.attrParser.httpClient(), p.attrParser.rateLimiter()
}

func (p *Pool) UnitNormalizerHandle() (string, *http.Client, *rate.Limiter) {
	return p.unitNormalizer.config.BaseURL, p.unitNormalizer.httpClient(), p.unitNormalizer.rateLimiter()
}

func (p *Pool) SemanticMatcherHandle() (string, *http.Client, *rate.Limiter) {
	return p.semanticMatcher.config.BaseURL, p.semanticMatcher.httpClient(), p.semanticMatcher.rateLimiter()
}
