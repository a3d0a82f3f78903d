package helper

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"maps"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
	"unsafe"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/govalues/decimal"
	customErrors "github.com/roysitumorang/raket/errors"
	"github.com/roysitumorang/raket/models"
	"github.com/vishal-bihani/go-tsid"
	"golang.org/x/crypto/bcrypt"
)

const (
	// cached views expire even when an invalidation is missed
	DefaultRedisTTL = 5 * time.Minute
)

var (
	ErrInvalidIdentifier = customErrors.New(fiber.StatusBadRequest, "invalid identifier")

	timeZone *time.Location
	env,
	jwtIssuer,
	nsqAddress,
	redisAddress string
	redisTTL   time.Duration
	InitHelper = sync.OnceValue(func() (err error) {
		location, ok := os.LookupEnv("TIME_ZONE")
		if !ok || location == "" {
			return errors.New("env TIME_ZONE is required")
		}
		if timeZone, err = time.LoadLocation(location); err != nil {
			return
		}
		if env, ok = os.LookupEnv("ENV"); !ok {
			return errors.New("env ENV is required")
		}
		if env == "" {
			env = "development"
		}
		if jwtIssuer, ok = os.LookupEnv("JWT_ISSUER"); !ok || jwtIssuer == "" {
			return errors.New("env JWT_ISSUER is required")
		}
		if nsqAddress, ok = os.LookupEnv("NSQ_ADDRESS"); !ok || nsqAddress == "" {
			return errors.New("env NSQ_ADDRESS is required")
		}
		// redis is optional, lookups go straight to the database without it
		redisAddress = os.Getenv("REDIS_ADDRESS")
		if redisTTL, err = parseRedisTTL(os.Getenv("REDIS_TTL")); err != nil {
			return
		}
		return
	})
)

func String2ByteSlice(str string) []byte {
	return unsafe.Slice(unsafe.StringData(str), len(str))
}

func ByteSlice2String(bs []byte) string {
	return *(*string)(unsafe.Pointer(&bs))
}

func GenerateUniqueID() (uniqueID int64, sqID string, uuID string, err error) {
	uuidV7, err := uuid.NewV7()
	if err != nil {
		return
	}
	tsid := tsid.Fast()
	return tsid.ToNumber(), tsid.ToLowerCase(), uuidV7.String(), nil
}

// NormalizeUUID returns the canonical lowercase form of input.
func NormalizeUUID(input string) (string, error) {
	id, err := uuid.Parse(strings.TrimSpace(input))
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidIdentifier, input)
	}
	return id.String(), nil
}

// parseRedisTTL falls back to DefaultRedisTTL when value is empty. Keys
// without expiry are not allowed.
func parseRedisTTL(value string) (time.Duration, error) {
	if value == "" {
		return DefaultRedisTTL, nil
	}
	ttl, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("env REDIS_TTL: %w", err)
	}
	if ttl <= 0 {
		return 0, errors.New("env REDIS_TTL should be positive")
	}
	return ttl, nil
}

func LoadTimeZone() *time.Location {
	return timeZone
}

func GetEnv() string {
	return env
}

func GetJwtIssuer() string {
	return jwtIssuer
}

func GetNsqAddress() string {
	return nsqAddress
}

func GetRedisAddress() string {
	return redisAddress
}

func GetRedisTTL() time.Duration {
	return redisTTL
}

// CountPages returns ceil(total / limit), or 1 when limit is unbounded.
func CountPages(total, limit int64) (int64, error) {
	if limit <= 0 {
		return 1, nil
	}
	totalDecimal, err := decimal.New(total, 0)
	if err != nil {
		return 0, err
	}
	perPageDecimal, err := decimal.New(limit, 0)
	if err != nil {
		return 0, err
	}
	pagesDecimal, err := totalDecimal.Quo(perPageDecimal)
	if err != nil {
		return 0, err
	}
	pages, _, _ := pagesDecimal.Ceil(0).Int64(0)
	return pages, nil
}

// SetPagination builds navigation links for zero-based pages.
func SetPagination(total, pages, limit, page int64, baseURL string, urlValues url.Values) (*models.Pagination, error) {
	var response models.Pagination
	response.Info.Total = total
	response.Info.Pages = pages
	response.Info.Limit = limit
	response.Links.First = baseURL
	response.Links.Current = baseURL
	if urlValues == nil {
		urlValues = url.Values{}
	}
	link := func(u url.Values) (string, error) {
		if len(u) == 0 {
			return baseURL, nil
		}
		queryString, err := url.QueryUnescape(u.Encode())
		if err != nil {
			return "", err
		}
		var builder strings.Builder
		_, _ = builder.WriteString(baseURL)
		_, _ = builder.WriteString("?")
		_, _ = builder.WriteString(queryString)
		return builder.String(), nil
	}
	first := maps.Clone(urlValues)
	first.Del("page")
	var err error
	if response.Links.First, err = link(first); err != nil {
		return nil, err
	}
	current := maps.Clone(urlValues)
	if page > 0 {
		current.Set("page", strconv.FormatInt(page, 10))
	}
	if response.Links.Current, err = link(current); err != nil {
		return nil, err
	}
	if page+1 < pages {
		next := maps.Clone(urlValues)
		next.Set("page", strconv.FormatInt(page+1, 10))
		if response.Links.Next, err = link(next); err != nil {
			return nil, err
		}
	}
	if page > 0 {
		previous := maps.Clone(urlValues)
		if page > 1 {
			previous.Set("page", strconv.FormatInt(page-1, 10))
		} else {
			previous.Del("page")
		}
		if response.Links.Previous, err = link(previous); err != nil {
			return nil, err
		}
	}
	return &response, nil
}

func GenerateAccessToken(id, subject, audience string, createdAt, expiredAt time.Time, privateKey *rsa.PrivateKey) (string, error) {
	numericDate := jwt.NewNumericDate(createdAt)
	var claims jwt.RegisteredClaims
	claims.ID = id
	claims.Subject = subject
	claims.Audience = append(claims.Audience, audience)
	claims.Issuer = jwtIssuer
	claims.IssuedAt = numericDate
	claims.NotBefore = numericDate
	claims.ExpiresAt = jwt.NewNumericDate(expiredAt)
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	return token.SignedString(privateKey)
}

func MatchedHashAndPassword(encryptedPassword, password []byte) bool {
	err := bcrypt.CompareHashAndPassword(encryptedPassword, password)
	return err == nil
}
