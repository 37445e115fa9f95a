package handlers

import (
	"errors"
	"math"
	"strconv"

	"github.com/labstack/echo/v4"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

var errPageOutOfRange = errors.New("page out of range")

type pageQuery struct {
	Page  *uint
	Limit *uint
}

// queryUint 在参数不存在时返回 nil
func queryUint(c echo.Context, name string) (*uint, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}

	v, err := strconv.ParseUint(raw, 10, 0)
	if err != nil {
		return nil, err
	}

	u := uint(v)
	return &u, nil
}

// parsePagination 返回是否展示全部，以及偏移量和每页数量。两个参数都没有提供，或者都为 0 时展示全部
func parsePagination(c echo.Context) (bool, int, int, error) {
	var (
		q   pageQuery
		err error
	)
	if q.Page, err = queryUint(c, "page"); err != nil {
		return false, 0, 0, err
	}
	if q.Limit, err = queryUint(c, "limit"); err != nil {
		return false, 0, 0, err
	}

	if q.Page == nil && q.Limit == nil {
		return true, -1, -1, nil
	}
	if q.Page != nil && *q.Page == 0 && q.Limit != nil && *q.Limit == 0 {
		return true, -1, -1, nil
	}

	// 第几页从 1 开始
	var page, limit uint
	if q.Page == nil || *q.Page < 1 {
		page = 0
	} else {
		page = *q.Page - 1
	}

	if q.Limit == nil || *q.Limit == 0 {
		limit = defaultPageLimit
	} else {
		limit = min(*q.Limit, maxPageLimit)
	}

	// 偏移量不能溢出
	if page > math.MaxInt32/limit {
		return false, 0, 0, errPageOutOfRange
	}

	return false, int(page * limit), int(limit), nil
}

func calcMaxPage(count int64, limit int) int64 {
	pageMax := count / int64(limit)
	if (count % int64(limit)) != 0 {
		pageMax++
	}
	return pageMax
}
