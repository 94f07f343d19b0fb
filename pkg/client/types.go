package client

import "time"

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

type AuthResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Token   string `json:"token"`
	User    User   `json:"user"`
}

type Developer struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Role        string    `json:"role"`
	TechStack   []string  `json:"techStack"`
	Experience  float64   `json:"experience"`
	Description string    `json:"description"`
	Photo       string    `json:"photo"`
	JoiningDate time.Time `json:"joiningDate"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// DeveloperPayload 创建/更新请求体；更新为全量替换
type DeveloperPayload struct {
	Name        string     `json:"name"`
	Role        string     `json:"role"`
	TechStack   []string   `json:"techStack"`
	Experience  float64    `json:"experience"`
	Description string     `json:"description,omitempty"`
	Photo       string     `json:"photo,omitempty"`
	JoiningDate *time.Time `json:"joiningDate,omitempty"`
}

// ListParams 零值字段不发送
type ListParams struct {
	Search string
	Role   string
	Sort   string
	Order  string
	Page   int
	Limit  int
}

type DeveloperPage struct {
	Count      int         `json:"count"`
	Data       []Developer `json:"data"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	TotalPages int         `json:"totalPages"`
}
