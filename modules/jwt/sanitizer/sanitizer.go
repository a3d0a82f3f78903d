package sanitizer

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/roysitumorang/raket/helper"
	jwtModel "github.com/roysitumorang/raket/modules/jwt/model"
	"go.uber.org/zap"
)

// FindJWTs reads paging for the current user's tokens. Non-numeric or
// negative values fall back to an unbounded first page.
func FindJWTs(ctx context.Context, c *fiber.Ctx, userID string) (*jwtModel.Filter, error) {
	ctxt := "JwtSanitizer-FindJWTs"
	originalURL, err := url.ParseRequestURI(c.OriginalURL())
	if err != nil {
		helper.Log(ctx, zap.ErrorLevel, err.Error(), ctxt, "ErrParseRequestURI")
		return nil, err
	}
	var builder strings.Builder
	_, _ = builder.WriteString(c.BaseURL())
	_, _ = builder.WriteString(originalURL.Path)
	urlValues := url.Values{}
	options := []jwtModel.FilterOption{
		jwtModel.WithPaginationURL(builder.String()),
		jwtModel.WithUserIDs(userID),
	}
	if limit, _ := strconv.ParseInt(c.Query("limit"), 10, 64); limit > 0 {
		urlValues.Set("limit", c.Query("limit"))
		options = append(options, jwtModel.WithLimit(limit))
	}
	page, _ := strconv.ParseInt(c.Query("page"), 10, 64)
	options = append(
		options,
		jwtModel.WithPage(max(page, 0)),
		jwtModel.WithUrlValues(urlValues),
	)
	return jwtModel.NewFilter(options...), nil
}
