// internal/workers/access/check-access/models.go
package checkaccess

type Input struct {
	UserID    string `json:"userId"`
	Operation string `json:"operation"`
}

type Output struct {
	Allowed bool     `json:"allowed"`
	UserID  string   `json:"userId"`
	Roles   []string `json:"roles"`
}
