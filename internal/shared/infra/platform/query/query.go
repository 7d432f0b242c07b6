package query

// ---------- Tipos de paginación ----------

const (
	DefaultPageSize = 10
	MaxPageSize     = 50
)

// OffsetPagination para paginación clásica. Limit <= 0 significa "sin límite".
type OffsetPagination struct {
	Limit  int
	Offset int
}

func (p OffsetPagination) Unbounded() bool {
	return p.Limit <= 0
}

// PagingParams son los parámetros de página tal como llegan del cliente.
// El valor cero significa "sin paginar".
type PagingParams struct {
	PageNumber int `form:"pageNumber" binding:"omitempty,min=1"`
	PageSize   int `form:"pageSize" binding:"omitempty,min=1"`
}

func (p PagingParams) Requested() bool {
	return p.PageNumber > 0 || p.PageSize > 0
}

// Normalize completa valores por defecto y recorta el tamaño a MaxPageSize.
func (p PagingParams) Normalize() PagingParams {
	if p.PageNumber < 1 {
		p.PageNumber = 1
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

// ToOffset traduce los parámetros a la paginación del repositorio.
func (p PagingParams) ToOffset() OffsetPagination {
	if !p.Requested() {
		return OffsetPagination{}
	}
	n := p.Normalize()
	return OffsetPagination{Limit: n.PageSize, Offset: (n.PageNumber - 1) * n.PageSize}
}

// PaginationHeader es la cabecera "Pagination" que acompaña a los listados.
type PaginationHeader struct {
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`
	PageSize    int `json:"pageSize"`
	TotalCount  int `json:"totalCount"`
}

// PagedList es una página de resultados más sus metadatos.
type PagedList[T any] struct {
	Items       []T
	CurrentPage int
	TotalPages  int
	PageSize    int
	TotalCount  int
}

// NewPagedList construye la página. Items nunca queda nil.
func NewPagedList[T any](items []T, totalCount int, params PagingParams) *PagedList[T] {
	if items == nil {
		items = make([]T, 0)
	}
	if !params.Requested() {
		return &PagedList[T]{
			Items:       items,
			CurrentPage: 1,
			TotalPages:  1,
			PageSize:    totalCount,
			TotalCount:  totalCount,
		}
	}

	n := params.Normalize()
	totalPages := (totalCount + n.PageSize - 1) / n.PageSize
	return &PagedList[T]{
		Items:       items,
		CurrentPage: n.PageNumber,
		TotalPages:  totalPages,
		PageSize:    n.PageSize,
		TotalCount:  totalCount,
	}
}

// Header devuelve los metadatos en el formato de la cabecera HTTP.
func (p *PagedList[T]) Header() PaginationHeader {
	return PaginationHeader{
		CurrentPage: p.CurrentPage,
		TotalPages:  p.TotalPages,
		PageSize:    p.PageSize,
		TotalCount:  p.TotalCount,
	}
}
