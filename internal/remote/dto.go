package remote

// Producto is a product record as served by the remote catalog API.
type Producto struct {
	ID               int64   `json:"id"`
	Nombre           string  `json:"nombre"`
	DescripcionCorta *string `json:"descripcionCorta,omitempty"`
	DescripcionLarga *string `json:"descripcionLarga,omitempty"`
	Precio           int64   `json:"precio"`
	Oferta           bool    `json:"oferta"`
	PrecioOferta     *int64  `json:"precioOferta,omitempty"`
	Categoria        *string `json:"categoria,omitempty"`
	Img              *string `json:"img,omitempty"`
	Stock            int     `json:"stock"`
	IVA              *int    `json:"iva,omitempty"`
}

// Rol is the role claim the remote attaches to a user.
type Rol struct {
	ID        int64   `json:"id"`
	NombreRol *string `json:"nombreRol,omitempty"`
}

// Usuario is the remote user record used by login and registration.
type Usuario struct {
	ID       *int64  `json:"id,omitempty"`
	Nombre   string  `json:"nombre"`
	Email    string  `json:"email"`
	Password *string `json:"password,omitempty"`
	Rut      *string `json:"rut,omitempty"`
	Region   *string `json:"region,omitempty"`
	Comuna   *string `json:"comuna,omitempty"`
	Rol      Rol     `json:"rol"`
}

// RoleName returns the remote role name or "" when none was sent.
func (u *Usuario) RoleName() string {
	if u == nil || u.Rol.NombreRol == nil {
		return ""
	}
	return *u.Rol.NombreRol
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// BoletaItem is one line of a submitted receipt.
type BoletaItem struct {
	ProductoID     int64 `json:"productoId"`
	Cantidad       int   `json:"cantidad"`
	PrecioUnitario int64 `json:"precioUnitario"`
}

// Boleta is an order receipt submitted to the remote API.
type Boleta struct {
	ID        *int64       `json:"id,omitempty"`
	Fecha     *string      `json:"fecha,omitempty"`
	Total     int64        `json:"total"`
	UsuarioID *int64       `json:"usuarioId,omitempty"`
	Items     []BoletaItem `json:"items"`
}
