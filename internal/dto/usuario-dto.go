package dto

type UsuarioDTO struct {
	ID        string   `json:"id"`
	Email     string   `json:"email"`
	Nombre    string   `json:"nombre"`
	Apellidos string   `json:"apellidos"`
	Activo    bool     `json:"activo"`
	Roles     []string `json:"roles"`
}

type CreateUsuarioDTO struct {
	Email     string   `json:"email" validate:"required,email"`
	Nombre    string   `json:"nombre" validate:"required,max=100"`
	Apellidos string   `json:"apellidos" validate:"max=100"`
	Password  string   `json:"password" validate:"required,min=8"`
	Roles     []string `json:"roles" validate:"required,min=1"`
}

type UpdateUsuarioDTO struct {
	Email     *string  `json:"email,omitempty" validate:"omitempty,email"`
	Nombre    *string  `json:"nombre,omitempty" validate:"omitempty,max=100"`
	Apellidos *string  `json:"apellidos,omitempty" validate:"omitempty,max=100"`
	Activo    *bool    `json:"activo,omitempty"`
	Roles     []string `json:"roles,omitempty"`
}
