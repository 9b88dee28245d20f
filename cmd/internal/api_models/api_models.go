// Package api_models содержит структуры запросов и ответов отладочного
// HTTP-сервера ручного сопоставления позиций тендера с товарами каталога.
package api_models

import (
	"fmt"
	"strings"
)

// UnmatchedPositionResponse описывает одну позицию тендера, для которой
// автоматический пайплайн ещё не нашёл ни одного кандидата.
type UnmatchedPositionResponse struct {
	TenderPositionID  int64  `json:"tender_position_id"`
	Title             string `json:"title"`
	RichContextString string `json:"rich_context_string"`
}

// MatchPositionRequest — тело POST /api/v1/positions/match: оператор вручную
// подтверждает соответствие позиции тендера товару-кандидату.
type MatchPositionRequest struct {
	TenderPositionID int64  `json:"tender_position_id"`
	ProductMongoID   string `json:"product_mongo_id"`
	Hash             string `json:"hash"`
	NormVersion      int    `json:"norm_version"`
}

// Validate проверяет обязательные поля запроса на ручное сопоставление.
func (r MatchPositionRequest) Validate() error {
	if r.TenderPositionID <= 0 {
		return fmt.Errorf("tender_position_id должен быть положительным числом")
	}
	if strings.TrimSpace(r.ProductMongoID) == "" {
		return fmt.Errorf("product_mongo_id не может быть пустым")
	}
	if strings.TrimSpace(r.Hash) == "" {
		return fmt.Errorf("hash не может быть пустым")
	}
	return nil
}
