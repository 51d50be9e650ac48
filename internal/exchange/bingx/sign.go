package bingx

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"
)

// BuildQuery는 파라미터를 키 기준 오름차순으로 정렬하여
// key=value&... 형태의 정규화된 쿼리 문자열을 만듭니다.
// BingX는 URL 인코딩 전의 원본 문자열에 서명합니다.
func BuildQuery(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}
	return strings.Join(pairs, "&")
}

// Sign은 정규화된 쿼리 문자열에 대한 HMAC-SHA256 서명을
// 소문자 16진수 문자열로 반환합니다.
func Sign(payload, secretKey string) string {
	h := hmac.New(sha256.New, []byte(secretKey))
	h.Write([]byte(payload))
	return hex.EncodeToString(h.Sum(nil))
}

// SignedQuery는 밀리초 타임스탬프를 추가한 뒤 정규화된 쿼리 문자열과
// 해당 서명을 반환합니다. 입력 맵은 변경하지 않습니다.
// 같은 입력과 같은 타임스탬프에 대해 항상 같은 결과를 돌려줍니다.
func SignedQuery(params map[string]string, timestamp int64, secretKey string) (query, signature string) {
	signed := make(map[string]string, len(params)+1)
	for k, v := range params {
		signed[k] = v
	}
	signed["timestamp"] = strconv.FormatInt(timestamp, 10)

	query = BuildQuery(signed)
	signature = Sign(query, secretKey)
	return query, signature
}
