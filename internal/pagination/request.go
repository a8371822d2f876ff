package pagination

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"sns/internal/apperror"
)

const DefaultTake = 20

type Operator string

const (
	OpEquals   Operator = "equals"
	OpMoreThan Operator = "more_than"
	OpLessThan Operator = "less_than"
	OpBetween  Operator = "between"
	OpLike     Operator = "like"
	OpILike    Operator = "i_like"
)

type Direction string

const (
	ASC  Direction = "ASC"
	DESC Direction = "DESC"
)

// Filter is one compiled predicate. Values holds one operand, or two for
// between. Pattern operands arrive already wrapped in % markers.
type Filter struct {
	Field  string
	Op     Operator
	Values []string
}

type Order struct {
	Field string
	Dir   Direction
}

// Request is built per HTTP request from the query string and discarded after
// the query runs. Page == 0 selects cursor mode.
type Request struct {
	Page    int
	Take    int
	Filters []Filter
	Orders  []Order

	// params is every effective query parameter, used to rebuild the next
	// cursor URL. Defaults for take and order__createdAt are filled in so the
	// follow-up request behaves like this one.
	params url.Values

	// createdAtDir decides which id bound the next URL carries.
	createdAtDir Direction
}

var fieldNamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// ParseRequest compiles a flat query-parameter map into filters and sort
// order. Keys matching neither where__ nor order__ are left for other
// consumers (page, take) or ignored outright.
func ParseRequest(values url.Values) (*Request, error) {
	req := &Request{
		Take:         DefaultTake,
		createdAtDir: ASC,
		params:       url.Values{},
	}

	if raw := values.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return nil, apperror.Newf(apperror.InvalidInput, "page must be a positive integer, got %q", raw)
		}
		req.Page = page
	}
	if raw := values.Get("take"); raw != "" {
		take, err := strconv.Atoi(raw)
		if err != nil || take < 1 {
			return nil, apperror.Newf(apperror.InvalidInput, "take must be a positive integer, got %q", raw)
		}
		req.Take = take
	}

	for key := range values {
		value := values.Get(key)
		if value == "" {
			continue
		}
		switch {
		case strings.HasPrefix(key, "where__"):
			filter, err := parseWhere(key, value)
			if err != nil {
				return nil, err
			}
			req.Filters = append(req.Filters, filter)
		case strings.HasPrefix(key, "order__"):
			order, err := parseOrder(key, value)
			if err != nil {
				return nil, err
			}
			if order.Field == "created_at" {
				req.createdAtDir = order.Dir
			}
			req.Orders = append(req.Orders, order)
		}
		req.params.Set(key, value)
	}

	// The follow-up URL must reproduce this request, so pin the defaults the
	// client omitted.
	if req.params.Get("take") == "" {
		req.params.Set("take", strconv.Itoa(req.Take))
	}
	if req.params.Get("order__createdAt") == "" {
		req.params.Set("order__createdAt", string(req.createdAtDir))
		req.Orders = append(req.Orders, Order{Field: "created_at", Dir: req.createdAtDir})
	}

	return req, nil
}

func parseWhere(key, value string) (Filter, error) {
	split := strings.Split(key, "__")
	if len(split) != 2 && len(split) != 3 {
		return Filter{}, apperror.Newf(apperror.InvalidInput,
			"where filter key must split into 2 or 3 parts on '__', got %q", key)
	}

	field, err := columnName(split[1])
	if err != nil {
		return Filter{}, err
	}

	if len(split) == 2 {
		return Filter{Field: field, Op: OpEquals, Values: []string{value}}, nil
	}

	switch op := Operator(split[2]); op {
	case OpMoreThan, OpLessThan:
		return Filter{Field: field, Op: op, Values: []string{value}}, nil
	case OpBetween:
		operands := strings.Split(value, ",")
		if len(operands) != 2 {
			return Filter{}, apperror.Newf(apperror.InvalidInput,
				"between expects exactly two comma-separated values, got %q", value)
		}
		return Filter{Field: field, Op: op, Values: operands}, nil
	case OpLike, OpILike:
		return Filter{Field: field, Op: op, Values: []string{"%" + value + "%"}}, nil
	default:
		return Filter{}, apperror.Newf(apperror.InvalidInput, "unsupported filter operator %q in key %q", split[2], key)
	}
}

func parseOrder(key, value string) (Order, error) {
	split := strings.Split(key, "__")
	if len(split) != 2 {
		return Order{}, apperror.Newf(apperror.InvalidInput,
			"order key must split into 2 parts on '__', got %q", key)
	}

	field, err := columnName(split[1])
	if err != nil {
		return Order{}, err
	}

	switch value {
	case "ASC", "asc":
		return Order{Field: field, Dir: ASC}, nil
	case "DESC", "desc":
		return Order{Field: field, Dir: DESC}, nil
	default:
		return Order{}, apperror.Newf(apperror.InvalidInput, "order direction must be ASC or DESC, got %q", value)
	}
}

// columnName validates a query-supplied field name and maps it to its column.
// Field names end up embedded in SQL, so anything outside the identifier
// shape is rejected rather than escaped.
func columnName(field string) (string, error) {
	if !fieldNamePattern.MatchString(field) {
		return "", apperror.Newf(apperror.InvalidInput, "invalid filter field %q", field)
	}
	return camelToSnake(field), nil
}

func camelToSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ApplyFilters adds the compiled predicates to a gorm query.
func (r *Request) ApplyFilters(db *gorm.DB) *gorm.DB {
	for _, f := range r.Filters {
		switch f.Op {
		case OpEquals:
			db = db.Where(f.Field+" = ?", f.Values[0])
		case OpMoreThan:
			db = db.Where(f.Field+" > ?", f.Values[0])
		case OpLessThan:
			db = db.Where(f.Field+" < ?", f.Values[0])
		case OpBetween:
			db = db.Where(f.Field+" BETWEEN ? AND ?", f.Values[0], f.Values[1])
		case OpLike:
			db = db.Where(f.Field+" LIKE ?", f.Values[0])
		case OpILike:
			db = db.Where("LOWER("+f.Field+") LIKE LOWER(?)", f.Values[0])
		}
	}
	return db
}

// ApplyOrders adds the sort order to a gorm query.
func (r *Request) ApplyOrders(db *gorm.DB) *gorm.DB {
	for _, o := range r.Orders {
		db = db.Order(o.Field + " " + string(o.Dir))
	}
	return db
}
