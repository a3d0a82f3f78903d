package models

const (
	CurrentUser = "current_user"
	CurrentJwt  = "current_jwt"
)

const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

type (
	Pagination struct {
		Links struct {
			First    string `json:"first" example:"http://localhost:8080/v1/transactions?limit=1&status=paid"`
			Previous string `json:"previous" example:"http://localhost:8080/v1/transactions?limit=1&status=paid"`
			Current  string `json:"current" example:"http://localhost:8080/v1/transactions?limit=1&page=2&status=paid"`
			Next     string `json:"next" example:"http://localhost:8080/v1/transactions?limit=1&page=3&status=paid"`
		} `json:"links"`
		Info struct {
			Limit int64 `json:"limit" example:"1"`
			Pages int64 `json:"pages" example:"3"`
			Total int64 `json:"total" example:"3"`
		} `json:"info"`
	}

	Message struct {
		Action string `json:"action"`
		ID     string `json:"id"`
	}

	// Identity is the acting user recorded in audit columns.
	Identity struct {
		ID *string
	}
)

// NullIdentity stamps audit columns with NULL.
var NullIdentity = Identity{}

func NewIdentity(id string) Identity {
	if id == "" {
		return NullIdentity
	}
	return Identity{ID: &id}
}
