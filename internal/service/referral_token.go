package service

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
)

// ReferralDataTTL 推荐数据有效期
const ReferralDataTTL = 30 * 24 * time.Hour

const referralTokenIssuer = "affiliate-referral"

// ReferralData 访客携带的推荐信息
type ReferralData struct {
	Code      string    `json:"code"`
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ReferralTokenClaims 推荐令牌声明
type ReferralTokenClaims struct {
	Code   string `json:"code"`
	Source string `json:"source"`
	jwt.RegisteredClaims
}

// ReferralTokenService 签发与校验推荐令牌
type ReferralTokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewReferralTokenService 创建推荐令牌服务
func NewReferralTokenService(secret string) *ReferralTokenService {
	return &ReferralTokenService{
		secret: []byte(secret),
		ttl:    ReferralDataTTL,
		now:    time.Now,
	}
}

// Issue 为推广码签发令牌
func (s *ReferralTokenService) Issue(code, source string) (string, *ReferralData, error) {
	issuedAt := s.now().UTC().Truncate(time.Second)
	data := &ReferralData{
		Code:      strings.ToUpper(strings.TrimSpace(code)),
		Source:    strings.TrimSpace(source),
		Timestamp: issuedAt,
		ExpiresAt: issuedAt.Add(s.ttl),
	}
	claims := ReferralTokenClaims{
		Code:   data.Code,
		Source: data.Source,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    referralTokenIssuer,
			ID:        ulid.Make().String(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(data.ExpiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", nil, err
	}
	return token, data, nil
}

// Parse 校验签名与有效期并还原推荐数据
func (s *ReferralTokenService) Parse(token string) (*ReferralData, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrReferralTokenInvalid
	}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(referralTokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	claims := &ReferralTokenClaims{}
	_, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrReferralTokenExpired
		}
		return nil, ErrReferralTokenInvalid
	}
	if strings.TrimSpace(claims.Code) == "" || claims.IssuedAt == nil {
		return nil, ErrReferralTokenInvalid
	}
	return &ReferralData{
		Code:      claims.Code,
		Source:    claims.Source,
		Timestamp: claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
