package memrepo

import (
	"context"
	"sort"
	"strings"
	"time"

	"tiendapos/internal/dto"
	"tiendapos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type productos struct{ s *Store }

func (r productos) CreateTx(_ *gorm.DB, p *model.ProductoInfo) error {
	return r.s.escribir(func(d *datos) error {
		for _, x := range d.productos {
			if x.Codigo == p.Codigo {
				return duplicado("producto")
			}
		}
		if p.CategoriaID != nil {
			if _, ok := d.categorias[*p.CategoriaID]; !ok {
				return noEncontrado("categoria")
			}
		}
		p.ID = nuevoID(p.ID)
		p.CreatedAt = r.s.ahora(p.CreatedAt)
		p.UpdatedAt = p.CreatedAt
		d.productos[p.ID] = *p
		return nil
	})
}

func (r productos) FindByID(_ context.Context, id uuid.UUID) (*model.ProductoInfo, error) {
	var p model.ProductoInfo
	var ok bool
	r.s.leer(func(d *datos) { p, ok = d.productos[id] })
	if !ok {
		return nil, noEncontrado("producto")
	}
	return &p, nil
}

func (r productos) List(_ context.Context, f dto.ProductoFilter) ([]model.ProductoInfo, int64, error) {
	var out []model.ProductoInfo
	busqueda := strings.ToLower(f.Busqueda)
	r.s.leer(func(d *datos) {
		for _, p := range d.productos {
			switch f.Activo {
			case "false":
				if p.Activo {
					continue
				}
			case "all":
			default:
				if !p.Activo {
					continue
				}
			}
			if busqueda != "" &&
				!strings.Contains(strings.ToLower(p.Codigo), busqueda) &&
				!strings.Contains(strings.ToLower(p.Descripcion), busqueda) {
				continue
			}
			if f.CategoriaID != "" && (p.CategoriaID == nil || p.CategoriaID.String() != f.CategoriaID) {
				continue
			}
			out = append(out, p)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Codigo < out[j].Codigo })
	ini, fin := paginar(len(out), f.Page, f.Limit)
	return out[ini:fin], int64(len(out)), nil
}

func (r productos) ListByIDs(_ context.Context, ids []uuid.UUID) ([]model.ProductoInfo, error) {
	var out []model.ProductoInfo
	r.s.leer(func(d *datos) {
		for _, id := range ids {
			if p, ok := d.productos[id]; ok {
				out = append(out, p)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Codigo < out[j].Codigo })
	return out, nil
}

func (r productos) FindForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.ProductoInfo, error) {
	return r.FindByID(context.Background(), id)
}

func (r productos) UpdatePreciosTx(_ *gorm.DB, p *model.ProductoInfo) error {
	return r.s.escribir(func(d *datos) error {
		cur, ok := d.productos[p.ID]
		if !ok {
			return noEncontrado("producto")
		}
		cur.PrecioCosto = p.PrecioCosto
		cur.PrecioVenta = p.PrecioVenta
		cur.PagoTrabajador = p.PagoTrabajador
		cur.UpdatedAt = r.s.Now()
		d.productos[p.ID] = cur
		return nil
	})
}

type historial struct{ s *Store }

func (r historial) CreateTx(_ *gorm.DB, h *model.HistorialPrecio) error {
	return r.s.escribir(func(d *datos) error {
		h.ID = nuevoID(h.ID)
		h.CreatedAt = r.s.ahora(h.CreatedAt)
		d.historial = append(d.historial, *h)
		return nil
	})
}

// delProducto returns the records of one SKU in insertion order.
func (r historial) delProducto(id uuid.UUID) []model.HistorialPrecio {
	var out []model.HistorialPrecio
	r.s.leer(func(d *datos) {
		for _, h := range d.historial {
			if h.ProductoInfoID == id {
				out = append(out, h)
			}
		}
	})
	return out
}

func (r historial) ListByProducto(_ context.Context, productoID uuid.UUID, page, limit int) ([]model.HistorialPrecio, int64, error) {
	rows := r.delProducto(productoID)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].VigenteDesde.After(rows[j].VigenteDesde) })
	ini, fin := paginar(len(rows), page, limit)
	return rows[ini:fin], int64(len(rows)), nil
}

func (r historial) ListByProductos(_ context.Context, ids []uuid.UUID) ([]model.HistorialPrecio, error) {
	var out []model.HistorialPrecio
	for _, id := range ids {
		out = append(out, r.delProducto(id)...)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ProductoInfoID != out[j].ProductoInfoID {
			return out[i].ProductoInfoID.String() < out[j].ProductoInfoID.String()
		}
		return out[i].VigenteDesde.Before(out[j].VigenteDesde)
	})
	return out, nil
}

func (r historial) PrecioVigente(_ context.Context, productoID uuid.UUID, asOf time.Time) (*model.HistorialPrecio, error) {
	rows := r.delProducto(productoID)
	if len(rows) == 0 {
		return nil, noEncontrado("historial de precios")
	}
	var vigente, primero *model.HistorialPrecio
	for i := range rows {
		h := &rows[i]
		if !h.VigenteDesde.After(asOf) && (vigente == nil || !h.VigenteDesde.Before(vigente.VigenteDesde)) {
			vigente = h
		}
		if primero == nil || h.VigenteDesde.Before(primero.VigenteDesde) ||
			h.VigenteDesde.Equal(primero.VigenteDesde) {
			primero = h
		}
	}
	if vigente != nil {
		return vigente, nil
	}
	return primero, nil
}

type categorias struct{ s *Store }

func (r categorias) Crear(_ context.Context, c *model.Categoria) error {
	return r.s.escribir(func(d *datos) error {
		for _, x := range d.categorias {
			if x.Nombre == c.Nombre {
				return duplicado("categoria")
			}
		}
		c.ID = nuevoID(c.ID)
		c.CreatedAt = r.s.ahora(c.CreatedAt)
		c.UpdatedAt = c.CreatedAt
		d.categorias[c.ID] = *c
		return nil
	})
}

func (r categorias) Listar(_ context.Context) ([]model.Categoria, error) {
	var out []model.Categoria
	r.s.leer(func(d *datos) {
		for _, c := range d.categorias {
			out = append(out, c)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Nombre < out[j].Nombre })
	return out, nil
}

func (r categorias) ObtenerPorID(_ context.Context, id uuid.UUID) (*model.Categoria, error) {
	var c model.Categoria
	var ok bool
	r.s.leer(func(d *datos) { c, ok = d.categorias[id] })
	if !ok {
		return nil, noEncontrado("categoria")
	}
	return &c, nil
}

type areas struct{ s *Store }

func (r areas) Crear(_ context.Context, a *model.Area) error {
	return r.s.escribir(func(d *datos) error {
		for _, x := range d.areas {
			if x.Nombre == a.Nombre {
				return duplicado("area")
			}
		}
		a.ID = nuevoID(a.ID)
		a.CreatedAt = r.s.ahora(a.CreatedAt)
		d.areas[a.ID] = *a
		return nil
	})
}

func (r areas) Listar(_ context.Context) ([]model.Area, error) {
	var out []model.Area
	r.s.leer(func(d *datos) {
		for _, a := range d.areas {
			out = append(out, a)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Nombre < out[j].Nombre })
	return out, nil
}

func (r areas) ObtenerPorID(_ context.Context, id uuid.UUID) (*model.Area, error) {
	var a model.Area
	var ok bool
	r.s.leer(func(d *datos) { a, ok = d.areas[id] })
	if !ok {
		return nil, noEncontrado("area")
	}
	return &a, nil
}

type usuarios struct{ s *Store }

func (r usuarios) Create(_ context.Context, u *model.Usuario) error {
	return r.s.escribir(func(d *datos) error {
		for _, x := range d.usuarios {
			if x.Username == u.Username {
				return duplicado("usuario")
			}
		}
		u.ID = nuevoID(u.ID)
		u.CreatedAt = r.s.ahora(u.CreatedAt)
		u.UpdatedAt = u.CreatedAt
		d.usuarios[u.ID] = *u
		return nil
	})
}

func (r usuarios) FindByUsername(_ context.Context, username string) (*model.Usuario, error) {
	var out *model.Usuario
	r.s.leer(func(d *datos) {
		for _, u := range d.usuarios {
			if u.Username == username && u.Activo {
				u := u
				out = &u
				return
			}
		}
	})
	if out == nil {
		return nil, noEncontrado("usuario")
	}
	return out, nil
}

func (r usuarios) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	var u model.Usuario
	var ok bool
	r.s.leer(func(d *datos) { u, ok = d.usuarios[id] })
	if !ok {
		return nil, noEncontrado("usuario")
	}
	return &u, nil
}

func (r usuarios) List(_ context.Context) ([]model.Usuario, error) {
	var out []model.Usuario
	r.s.leer(func(d *datos) {
		for _, u := range d.usuarios {
			out = append(out, u)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}
