package memrepo

import (
	"context"
	"slices"
	"sort"
	"time"

	"tiendapos/internal/dto"
	"tiendapos/internal/model"
	"tiendapos/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type unidades struct{ s *Store }

func (r unidades) CrearTx(_ *gorm.DB, us []model.ProductoUnidad) error {
	return r.s.escribir(func(d *datos) error {
		for i := range us {
			d.unidadSeq++
			us[i].ID = d.unidadSeq
			us[i].CreatedAt = r.s.ahora(us[i].CreatedAt)
			us[i].UpdatedAt = us[i].CreatedAt
			d.unidades[us[i].ID] = us[i]
		}
		return nil
	})
}

func enPool(u model.ProductoUnidad, pool model.Ubicacion) bool {
	if u.Estado != pool.Estado {
		return false
	}
	return pool.Estado != model.EstadoArea || (u.AreaID != nil && *u.AreaID == pool.Ref)
}

func ordenarUnidades(us []model.ProductoUnidad) {
	sort.Slice(us, func(i, j int) bool { return us[i].ID < us[j].ID })
}

func (r unidades) SeleccionarTx(_ *gorm.DB, productoID uuid.UUID, pool model.Ubicacion, n int, excluir []uint64) ([]model.ProductoUnidad, error) {
	var out []model.ProductoUnidad
	r.s.leer(func(d *datos) {
		for _, u := range d.unidades {
			if u.ProductoInfoID == productoID && enPool(u, pool) && !slices.Contains(excluir, u.ID) {
				out = append(out, u)
			}
		}
	})
	ordenarUnidades(out)
	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}

func (r unidades) BuscarTx(_ *gorm.DB, ids []uint64) ([]model.ProductoUnidad, error) {
	var out []model.ProductoUnidad
	r.s.leer(func(d *datos) {
		for _, id := range ids {
			if u, ok := d.unidades[id]; ok {
				out = append(out, u)
			}
		}
	})
	ordenarUnidades(out)
	return out, nil
}

func (r unidades) PorEntradaTx(_ *gorm.DB, entradaID uuid.UUID) ([]model.ProductoUnidad, error) {
	var out []model.ProductoUnidad
	r.s.leer(func(d *datos) {
		for _, u := range d.unidades {
			if u.EntradaID == entradaID {
				out = append(out, u)
			}
		}
	})
	ordenarUnidades(out)
	return out, nil
}

func (r unidades) MoverTx(_ *gorm.DB, ids []uint64, destino model.Ubicacion, documentoID uuid.UUID) error {
	return r.s.escribir(func(d *datos) error {
		for _, id := range ids {
			u, ok := d.unidades[id]
			if !ok {
				continue
			}
			doc := documentoID
			u.Ubicar(destino, &doc)
			u.UpdatedAt = r.s.Now()
			d.unidades[id] = u
		}
		return nil
	})
}

func (r unidades) RestaurarTx(_ *gorm.DB, movs []model.MovimientoUnidad) error {
	return r.s.escribir(func(d *datos) error {
		for _, m := range movs {
			u, ok := d.unidades[m.UnidadID]
			if !ok {
				continue
			}
			u.Estado = m.OrigenEstado
			u.AreaID = m.OrigenAreaID
			u.DocumentoID = m.OrigenDocumentoID
			u.UpdatedAt = r.s.Now()
			d.unidades[u.ID] = u
		}
		return nil
	})
}

func (r unidades) EliminarPorEntradaTx(_ *gorm.DB, entradaID uuid.UUID) error {
	return r.s.escribir(func(d *datos) error {
		for id, u := range d.unidades {
			if u.EntradaID == entradaID {
				delete(d.unidades, id)
			}
		}
		return nil
	})
}

func (r unidades) RegistrarMovimientosTx(_ *gorm.DB, movs []model.MovimientoUnidad) error {
	return r.s.escribir(func(d *datos) error {
		for i := range movs {
			movs[i].ID = nuevoID(movs[i].ID)
			movs[i].CreatedAt = r.s.ahora(movs[i].CreatedAt)
			d.movimientos = append(d.movimientos, movs[i])
		}
		return nil
	})
}

func (r unidades) MovimientosTx(_ *gorm.DB, documentoID uuid.UUID) ([]model.MovimientoUnidad, error) {
	var out []model.MovimientoUnidad
	r.s.leer(func(d *datos) {
		for _, m := range d.movimientos {
			if m.DocumentoID == documentoID {
				out = append(out, m)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].UnidadID < out[j].UnidadID })
	return out, nil
}

func (r unidades) EliminarMovimientosTx(_ *gorm.DB, documentoID uuid.UUID) error {
	return r.s.escribir(func(d *datos) error {
		d.movimientos = slices.DeleteFunc(d.movimientos, func(m model.MovimientoUnidad) bool {
			return m.DocumentoID == documentoID
		})
		return nil
	})
}

func (r unidades) Conteo(_ context.Context, productoID *uuid.UUID) ([]repository.ConteoUnidades, error) {
	type clave struct {
		producto uuid.UUID
		estado   model.EstadoUnidad
		area     uuid.UUID
	}
	cuenta := map[clave]*repository.ConteoUnidades{}
	r.s.leer(func(d *datos) {
		for _, u := range d.unidades {
			if productoID != nil && u.ProductoInfoID != *productoID {
				continue
			}
			k := clave{producto: u.ProductoInfoID, estado: u.Estado}
			if u.AreaID != nil {
				k.area = *u.AreaID
			}
			c, ok := cuenta[k]
			if !ok {
				c = &repository.ConteoUnidades{ProductoInfoID: u.ProductoInfoID, Estado: u.Estado, AreaID: u.AreaID}
				cuenta[k] = c
			}
			c.Cantidad++
		}
	})
	out := make([]repository.ConteoUnidades, 0, len(cuenta))
	for _, c := range cuenta {
		out = append(out, *c)
	}
	return out, nil
}

func (r unidades) List(_ context.Context, f dto.UnidadFilter) ([]model.ProductoUnidad, int64, error) {
	var out []model.ProductoUnidad
	r.s.leer(func(d *datos) {
		for _, u := range d.unidades {
			if f.ProductoInfoID != "" && u.ProductoInfoID.String() != f.ProductoInfoID {
				continue
			}
			if f.Estado != "" && string(u.Estado) != f.Estado {
				continue
			}
			if f.AreaID != "" && (u.AreaID == nil || u.AreaID.String() != f.AreaID) {
				continue
			}
			out = append(out, u)
		}
	})
	ordenarUnidades(out)
	ini, fin := paginar(len(out), f.Page, f.Limit)
	return out[ini:fin], int64(len(out)), nil
}

type inventario struct{ s *Store }

// guardar inserts v into m under a fresh or caller-chosen ID.
func guardar[T any](s *Store, m func(d *datos) map[uuid.UUID]T, id uuid.UUID, v T) error {
	return s.escribir(func(d *datos) error {
		tabla := m(d)
		if _, ok := tabla[id]; ok {
			return duplicado("documento")
		}
		tabla[id] = v
		return nil
	})
}

func buscar[T any](s *Store, m func(d *datos) map[uuid.UUID]T, id uuid.UUID, entidad string) (*T, error) {
	var v T
	var ok bool
	s.leer(func(d *datos) { v, ok = m(d)[id] })
	if !ok {
		return nil, noEncontrado(entidad)
	}
	return &v, nil
}

func borrar[T any](s *Store, m func(d *datos) map[uuid.UUID]T, id uuid.UUID) error {
	return s.escribir(func(d *datos) error {
		delete(m(d), id)
		return nil
	})
}

func tablaEntradas(d *datos) map[uuid.UUID]model.EntradaAlmacen { return d.entradas }
func tablaSalidas(d *datos) map[uuid.UUID]model.SalidaAlmacen { return d.salidas }
func tablaVentas(d *datos) map[uuid.UUID]model.Venta { return d.ventas }
func tablaTransferencias(d *datos) map[uuid.UUID]model.Transferencia { return d.transferencias }
func tablaAjustes(d *datos) map[uuid.UUID]model.AjusteInventario { return d.ajustes }

func (r inventario) CrearEntradaTx(_ *gorm.DB, e *model.EntradaAlmacen) error {
	e.ID = nuevoID(e.ID)
	e.CreatedAt = r.s.ahora(e.CreatedAt)
	v := *e
	v.Producto = nil
	return guardar(r.s, tablaEntradas, e.ID, v)
}

func (r inventario) EntradaTx(_ *gorm.DB, id uuid.UUID) (*model.EntradaAlmacen, error) {
	return buscar(r.s, tablaEntradas, id, "entrada")
}

func (r inventario) EliminarEntradaTx(_ *gorm.DB, id uuid.UUID) error {
	return borrar(r.s, tablaEntradas, id)
}

func (r inventario) CrearSalidaTx(_ *gorm.DB, s *model.SalidaAlmacen) error {
	s.ID = nuevoID(s.ID)
	s.CreatedAt = r.s.ahora(s.CreatedAt)
	return guardar(r.s, tablaSalidas, s.ID, *s)
}

func (r inventario) SalidaTx(_ *gorm.DB, id uuid.UUID) (*model.SalidaAlmacen, error) {
	return buscar(r.s, tablaSalidas, id, "salida")
}

func (r inventario) EliminarSalidaTx(_ *gorm.DB, id uuid.UUID) error {
	return borrar(r.s, tablaSalidas, id)
}

func (r inventario) CrearVentaTx(_ *gorm.DB, v *model.Venta) error {
	v.ID = nuevoID(v.ID)
	v.CreatedAt = r.s.ahora(v.CreatedAt)
	return guardar(r.s, tablaVentas, v.ID, *v)
}

func (r inventario) VentaTx(_ *gorm.DB, id uuid.UUID) (*model.Venta, error) {
	return buscar(r.s, tablaVentas, id, "venta")
}

func (r inventario) EliminarVentaTx(_ *gorm.DB, id uuid.UUID) error {
	return borrar(r.s, tablaVentas, id)
}

func (r inventario) CrearTransferenciaTx(_ *gorm.DB, t *model.Transferencia) error {
	t.ID = nuevoID(t.ID)
	t.CreatedAt = r.s.ahora(t.CreatedAt)
	return guardar(r.s, tablaTransferencias, t.ID, *t)
}

func (r inventario) TransferenciaTx(_ *gorm.DB, id uuid.UUID) (*model.Transferencia, error) {
	return buscar(r.s, tablaTransferencias, id, "transferencia")
}

func (r inventario) EliminarTransferenciaTx(_ *gorm.DB, id uuid.UUID) error {
	return borrar(r.s, tablaTransferencias, id)
}

func (r inventario) CrearAjusteTx(_ *gorm.DB, a *model.AjusteInventario) error {
	a.ID = nuevoID(a.ID)
	a.CreatedAt = r.s.ahora(a.CreatedAt)
	for i := range a.Items {
		a.Items[i].ID = nuevoID(a.Items[i].ID)
		a.Items[i].AjusteID = a.ID
	}
	v := *a
	v.Items = slices.Clone(a.Items)
	return guardar(r.s, tablaAjustes, a.ID, v)
}

func (r inventario) AjusteTx(_ *gorm.DB, id uuid.UUID) (*model.AjusteInventario, error) {
	a, err := buscar(r.s, tablaAjustes, id, "ajuste")
	if err != nil {
		return nil, err
	}
	a.Items = slices.Clone(a.Items)
	return a, nil
}

func (r inventario) EliminarAjusteTx(_ *gorm.DB, id uuid.UUID) error {
	return borrar(r.s, tablaAjustes, id)
}

func (r inventario) VentasEntre(_ context.Context, desde, hasta time.Time, areaID *uuid.UUID) ([]model.Venta, error) {
	var out []model.Venta
	r.s.leer(func(d *datos) {
		for _, v := range d.ventas {
			if v.CreatedAt.Before(desde) || !v.CreatedAt.Before(hasta) {
				continue
			}
			if areaID != nil && v.AreaID != *areaID {
				continue
			}
			out = append(out, v)
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}
