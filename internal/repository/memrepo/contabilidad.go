package memrepo

import (
	"context"
	"slices"
	"sort"
	"time"

	"tiendapos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type cuentas struct{ s *Store }

func tablaCuentas(d *datos) map[uuid.UUID]model.Cuenta { return d.cuentas }
func tablaTransacciones(d *datos) map[uuid.UUID]model.Transaccion { return d.transacciones }

func (r cuentas) Crear(_ context.Context, c *model.Cuenta) error {
	return r.s.escribir(func(d *datos) error {
		for _, x := range d.cuentas {
			if x.Nombre == c.Nombre {
				return duplicado("cuenta")
			}
		}
		c.ID = nuevoID(c.ID)
		c.CreatedAt = r.s.ahora(c.CreatedAt)
		c.UpdatedAt = c.CreatedAt
		d.cuentas[c.ID] = *c
		return nil
	})
}

func (r cuentas) ObtenerPorID(_ context.Context, id uuid.UUID) (*model.Cuenta, error) {
	return buscar(r.s, tablaCuentas, id, "cuenta")
}

func (r cuentas) Listar(_ context.Context) ([]model.Cuenta, error) {
	var out []model.Cuenta
	r.s.leer(func(d *datos) {
		for _, c := range d.cuentas {
			out = append(out, c)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Nombre < out[j].Nombre })
	return out, nil
}

func (r cuentas) ListarTransacciones(_ context.Context, cuentaID uuid.UUID, page, limit int) ([]model.Transaccion, int64, error) {
	var out []model.Transaccion
	r.s.leer(func(d *datos) {
		for _, t := range d.transacciones {
			if t.CuentaID == cuentaID {
				out = append(out, t)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.String() > out[j].ID.String()
	})
	if limit < 1 || limit > 200 {
		limit = 50
	}
	ini, fin := paginar(len(out), page, limit)
	return out[ini:fin], int64(len(out)), nil
}

func (r cuentas) BloquearTx(_ *gorm.DB, id uuid.UUID) (*model.Cuenta, error) {
	return buscar(r.s, tablaCuentas, id, "cuenta")
}

func (r cuentas) AjustarSaldoTx(_ *gorm.DB, id uuid.UUID, delta decimal.Decimal) error {
	return r.s.escribir(func(d *datos) error {
		c, ok := d.cuentas[id]
		if !ok {
			return noEncontrado("cuenta")
		}
		c.Saldo = c.Saldo.Add(delta)
		c.UpdatedAt = r.s.Now()
		d.cuentas[id] = c
		return nil
	})
}

func (r cuentas) CrearTransaccionTx(_ *gorm.DB, t *model.Transaccion) error {
	t.ID = nuevoID(t.ID)
	t.CreatedAt = r.s.ahora(t.CreatedAt)
	return guardar(r.s, tablaTransacciones, t.ID, *t)
}

func (r cuentas) TransaccionTx(_ *gorm.DB, id uuid.UUID) (*model.Transaccion, error) {
	return buscar(r.s, tablaTransacciones, id, "transaccion")
}

func (r cuentas) EliminarTransaccionTx(_ *gorm.DB, id uuid.UUID) error {
	return borrar(r.s, tablaTransacciones, id)
}

type gastos struct{ s *Store }

func (r gastos) CrearFijo(_ context.Context, g *model.GastoFijo) error {
	g.ID = nuevoID(g.ID)
	g.CreatedAt = r.s.ahora(g.CreatedAt)
	return guardar(r.s, func(d *datos) map[uuid.UUID]model.GastoFijo { return d.gastosFijos }, g.ID, *g)
}

func (r gastos) ListarFijos(_ context.Context, soloActivos bool) ([]model.GastoFijo, error) {
	var out []model.GastoFijo
	r.s.leer(func(d *datos) {
		for _, g := range d.gastosFijos {
			if soloActivos && !g.Activo {
				continue
			}
			out = append(out, g)
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Descripcion != out[j].Descripcion {
			return out[i].Descripcion < out[j].Descripcion
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

func (r gastos) DesactivarFijo(_ context.Context, id uuid.UUID) error {
	return r.s.escribir(func(d *datos) error {
		g, ok := d.gastosFijos[id]
		if !ok {
			return noEncontrado("gasto fijo")
		}
		g.Activo = false
		d.gastosFijos[id] = g
		return nil
	})
}

func (r gastos) CrearVariable(_ context.Context, g *model.GastoVariable) error {
	g.ID = nuevoID(g.ID)
	g.CreatedAt = r.s.ahora(g.CreatedAt)
	return guardar(r.s, func(d *datos) map[uuid.UUID]model.GastoVariable { return d.gastosVariables }, g.ID, *g)
}

func (r gastos) ListarVariables(_ context.Context, desde, hasta time.Time) ([]model.GastoVariable, error) {
	const dia = "2006-01-02"
	ini, fin := desde.Format(dia), hasta.Format(dia)
	var out []model.GastoVariable
	r.s.leer(func(d *datos) {
		for _, g := range d.gastosVariables {
			f := g.Fecha.Format(dia)
			if f >= ini && f <= fin {
				out = append(out, g)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Fecha.Equal(out[j].Fecha) {
			return out[i].Fecha.Before(out[j].Fecha)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

type cafeteria struct{ s *Store }

func tablaProductosCaf(d *datos) map[uuid.UUID]model.ProductoCafeteria { return d.productosCaf }
func tablaVentasCaf(d *datos) map[uuid.UUID]model.VentaCafeteria { return d.ventasCaf }

func (r cafeteria) CrearProducto(_ context.Context, p *model.ProductoCafeteria) error {
	return r.s.escribir(func(d *datos) error {
		for _, x := range d.productosCaf {
			if x.Nombre == p.Nombre {
				return duplicado("producto de cafeteria")
			}
		}
		p.ID = nuevoID(p.ID)
		p.CreatedAt = r.s.ahora(p.CreatedAt)
		p.UpdatedAt = p.CreatedAt
		d.productosCaf[p.ID] = *p
		return nil
	})
}

func (r cafeteria) ProductoPorID(_ context.Context, id uuid.UUID) (*model.ProductoCafeteria, error) {
	return buscar(r.s, tablaProductosCaf, id, "producto de cafeteria")
}

func (r cafeteria) ListarProductos(_ context.Context) ([]model.ProductoCafeteria, error) {
	var out []model.ProductoCafeteria
	r.s.leer(func(d *datos) {
		for _, p := range d.productosCaf {
			out = append(out, p)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Nombre < out[j].Nombre })
	return out, nil
}

func (r cafeteria) BloquearProductosTx(_ *gorm.DB, ids []uuid.UUID) (map[uuid.UUID]*model.ProductoCafeteria, error) {
	out := make(map[uuid.UUID]*model.ProductoCafeteria, len(ids))
	r.s.leer(func(d *datos) {
		for _, id := range ids {
			if p, ok := d.productosCaf[id]; ok {
				out[id] = &p
			}
		}
	})
	return out, nil
}

func (r cafeteria) AjustarCantidadesTx(_ *gorm.DB, id uuid.UUID, deltaAlmacen, deltaArea decimal.Decimal) error {
	return r.s.escribir(func(d *datos) error {
		p, ok := d.productosCaf[id]
		if !ok {
			return noEncontrado("producto de cafeteria")
		}
		p.CantidadAlmacen = p.CantidadAlmacen.Add(deltaAlmacen)
		p.CantidadArea = p.CantidadArea.Add(deltaArea)
		p.UpdatedAt = r.s.Now()
		d.productosCaf[id] = p
		return nil
	})
}

func (r cafeteria) CrearEntradaTx(_ *gorm.DB, e *model.EntradaCafeteria) error {
	e.ID = nuevoID(e.ID)
	e.CreatedAt = r.s.ahora(e.CreatedAt)
	return guardar(r.s, func(d *datos) map[uuid.UUID]model.EntradaCafeteria { return d.entradasCaf }, e.ID, *e)
}

func (r cafeteria) CrearSalidaTx(_ *gorm.DB, s *model.SalidaCafeteria) error {
	s.ID = nuevoID(s.ID)
	s.CreatedAt = r.s.ahora(s.CreatedAt)
	return guardar(r.s, func(d *datos) map[uuid.UUID]model.SalidaCafeteria { return d.salidasCaf }, s.ID, *s)
}

func (r cafeteria) CrearElaboracion(_ context.Context, e *model.Elaboracion) error {
	return r.s.escribir(func(d *datos) error {
		for _, x := range d.elaboraciones {
			if x.Nombre == e.Nombre {
				return duplicado("elaboracion")
			}
		}
		for _, ing := range e.Ingredientes {
			if _, ok := d.productosCaf[ing.ProductoCafeteriaID]; !ok {
				return noEncontrado("producto de cafeteria")
			}
		}
		e.ID = nuevoID(e.ID)
		e.CreatedAt = r.s.ahora(e.CreatedAt)
		for i := range e.Ingredientes {
			e.Ingredientes[i].ID = nuevoID(e.Ingredientes[i].ID)
			e.Ingredientes[i].ElaboracionID = e.ID
		}
		v := *e
		v.Ingredientes = slices.Clone(e.Ingredientes)
		d.elaboraciones[e.ID] = v
		return nil
	})
}

func (r cafeteria) ElaboracionPorID(_ context.Context, id uuid.UUID) (*model.Elaboracion, error) {
	e, err := buscar(r.s, func(d *datos) map[uuid.UUID]model.Elaboracion { return d.elaboraciones }, id, "elaboracion")
	if err != nil {
		return nil, err
	}
	e.Ingredientes = slices.Clone(e.Ingredientes)
	return e, nil
}

func (r cafeteria) ListarElaboraciones(_ context.Context) ([]model.Elaboracion, error) {
	var out []model.Elaboracion
	r.s.leer(func(d *datos) {
		for _, e := range d.elaboraciones {
			e.Ingredientes = slices.Clone(e.Ingredientes)
			out = append(out, e)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Nombre < out[j].Nombre })
	return out, nil
}

func (r cafeteria) CrearVentaTx(_ *gorm.DB, v *model.VentaCafeteria) error {
	v.ID = nuevoID(v.ID)
	v.CreatedAt = r.s.ahora(v.CreatedAt)
	for i := range v.Items {
		v.Items[i].ID = nuevoID(v.Items[i].ID)
		v.Items[i].VentaCafeteriaID = v.ID
	}
	c := *v
	c.Items = slices.Clone(v.Items)
	return guardar(r.s, tablaVentasCaf, v.ID, c)
}

func (r cafeteria) VentaTx(_ *gorm.DB, id uuid.UUID) (*model.VentaCafeteria, error) {
	v, err := buscar(r.s, tablaVentasCaf, id, "venta de cafeteria")
	if err != nil {
		return nil, err
	}
	v.Items = slices.Clone(v.Items)
	return v, nil
}

func (r cafeteria) EliminarVentaTx(_ *gorm.DB, id uuid.UUID) error {
	return borrar(r.s, tablaVentasCaf, id)
}

func (r cafeteria) VentasEntre(_ context.Context, desde, hasta time.Time) ([]model.VentaCafeteria, error) {
	var out []model.VentaCafeteria
	r.s.leer(func(d *datos) {
		for _, v := range d.ventasCaf {
			if v.CreatedAt.Before(desde) || !v.CreatedAt.Before(hasta) {
				continue
			}
			v.Items = slices.Clone(v.Items)
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
