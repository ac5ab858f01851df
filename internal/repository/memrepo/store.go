// Package memrepo is an in-memory implementation of the repository
// interfaces. Service tests and the acceptance suite run against it; the
// UnitOfWork snapshots every table and restores the snapshot when the unit of
// work fails, so rollback semantics match the GORM implementation.
package memrepo

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"tiendapos/internal/apierror"
	"tiendapos/internal/model"
	"tiendapos/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type datos struct {
	productos  map[uuid.UUID]model.ProductoInfo
	historial  []model.HistorialPrecio
	categorias map[uuid.UUID]model.Categoria
	areas      map[uuid.UUID]model.Area
	usuarios   map[uuid.UUID]model.Usuario

	unidades    map[uint64]model.ProductoUnidad
	unidadSeq   uint64
	movimientos []model.MovimientoUnidad

	entradas       map[uuid.UUID]model.EntradaAlmacen
	salidas        map[uuid.UUID]model.SalidaAlmacen
	ventas         map[uuid.UUID]model.Venta
	transferencias map[uuid.UUID]model.Transferencia
	ajustes        map[uuid.UUID]model.AjusteInventario

	cuentas       map[uuid.UUID]model.Cuenta
	transacciones map[uuid.UUID]model.Transaccion

	gastosFijos     map[uuid.UUID]model.GastoFijo
	gastosVariables map[uuid.UUID]model.GastoVariable

	productosCaf  map[uuid.UUID]model.ProductoCafeteria
	entradasCaf   map[uuid.UUID]model.EntradaCafeteria
	salidasCaf    map[uuid.UUID]model.SalidaCafeteria
	elaboraciones map[uuid.UUID]model.Elaboracion
	ventasCaf     map[uuid.UUID]model.VentaCafeteria
}

func nuevosDatos() datos {
	return datos{
		productos:       map[uuid.UUID]model.ProductoInfo{},
		categorias:      map[uuid.UUID]model.Categoria{},
		areas:           map[uuid.UUID]model.Area{},
		usuarios:        map[uuid.UUID]model.Usuario{},
		unidades:        map[uint64]model.ProductoUnidad{},
		entradas:        map[uuid.UUID]model.EntradaAlmacen{},
		salidas:         map[uuid.UUID]model.SalidaAlmacen{},
		ventas:          map[uuid.UUID]model.Venta{},
		transferencias:  map[uuid.UUID]model.Transferencia{},
		ajustes:         map[uuid.UUID]model.AjusteInventario{},
		cuentas:         map[uuid.UUID]model.Cuenta{},
		transacciones:   map[uuid.UUID]model.Transaccion{},
		gastosFijos:     map[uuid.UUID]model.GastoFijo{},
		gastosVariables: map[uuid.UUID]model.GastoVariable{},
		productosCaf:    map[uuid.UUID]model.ProductoCafeteria{},
		entradasCaf:     map[uuid.UUID]model.EntradaCafeteria{},
		salidasCaf:      map[uuid.UUID]model.SalidaCafeteria{},
		elaboraciones:   map[uuid.UUID]model.Elaboracion{},
		ventasCaf:       map[uuid.UUID]model.VentaCafeteria{},
	}
}

// Stored rows are replaced, never mutated in place, so a shallow copy of
// every table is a consistent snapshot.
func (d datos) clonar() datos {
	c := d
	c.productos = maps.Clone(d.productos)
	c.historial = slices.Clone(d.historial)
	c.categorias = maps.Clone(d.categorias)
	c.areas = maps.Clone(d.areas)
	c.usuarios = maps.Clone(d.usuarios)
	c.unidades = maps.Clone(d.unidades)
	c.movimientos = slices.Clone(d.movimientos)
	c.entradas = maps.Clone(d.entradas)
	c.salidas = maps.Clone(d.salidas)
	c.ventas = maps.Clone(d.ventas)
	c.transferencias = maps.Clone(d.transferencias)
	c.ajustes = maps.Clone(d.ajustes)
	c.cuentas = maps.Clone(d.cuentas)
	c.transacciones = maps.Clone(d.transacciones)
	c.gastosFijos = maps.Clone(d.gastosFijos)
	c.gastosVariables = maps.Clone(d.gastosVariables)
	c.productosCaf = maps.Clone(d.productosCaf)
	c.entradasCaf = maps.Clone(d.entradasCaf)
	c.salidasCaf = maps.Clone(d.salidasCaf)
	c.elaboraciones = maps.Clone(d.elaboraciones)
	c.ventasCaf = maps.Clone(d.ventasCaf)
	return c
}

// Store holds every table. The zero value is not usable; call New.
type Store struct {
	txMu sync.Mutex // one unit of work at a time
	mu   sync.Mutex // guards d
	d    datos

	// Now stamps CreatedAt on rows inserted without one.
	Now func() time.Time
}

func New() *Store {
	return &Store{d: nuevosDatos(), Now: time.Now}
}

func (s *Store) leer(fn func(d *datos)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.d)
}

func (s *Store) escribir(fn func(d *datos) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&s.d)
}

func (s *Store) ahora(t time.Time) time.Time {
	if t.IsZero() {
		return s.Now()
	}
	return t
}

func nuevoID(id uuid.UUID) uuid.UUID {
	if id == uuid.Nil {
		return uuid.New()
	}
	return id
}

type unitOfWork struct{ s *Store }

// UnitOfWork returns a repository.UnitOfWork whose fn receives a nil *gorm.DB.
func (s *Store) UnitOfWork() repository.UnitOfWork { return unitOfWork{s: s} }

func (u unitOfWork) Do(ctx context.Context, fn func(tx *gorm.DB) error) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	u.s.txMu.Lock()
	defer u.s.txMu.Unlock()

	var snapshot datos
	u.s.leer(func(d *datos) { snapshot = d.clonar() })

	defer func() {
		if r := recover(); r != nil {
			u.s.restaurar(snapshot)
			panic(r)
		}
		if err != nil {
			u.s.restaurar(snapshot)
		}
	}()
	return fn(nil)
}

func (s *Store) restaurar(d datos) {
	s.mu.Lock()
	s.d = d
	s.mu.Unlock()
}

func (s *Store) Productos() repository.ProductoRepository { return productos{s} }
func (s *Store) Historial() repository.HistorialPrecioRepository { return historial{s} }
func (s *Store) Categorias() repository.CategoriaRepository { return categorias{s} }
func (s *Store) Areas() repository.AreaRepository { return areas{s} }
func (s *Store) Usuarios() repository.UsuarioRepository { return usuarios{s} }
func (s *Store) Unidades() repository.UnidadRepository { return unidades{s} }
func (s *Store) Inventario() repository.InventarioRepository { return inventario{s} }
func (s *Store) Cuentas() repository.CuentaRepository { return cuentas{s} }
func (s *Store) Gastos() repository.GastoRepository { return gastos{s} }
func (s *Store) Cafeteria() repository.CafeteriaRepository { return cafeteria{s} }

// paginar returns the [offset, offset+limit) window of n rows.
func paginar(n, page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = n
	}
	ini := (page - 1) * limit
	if ini > n {
		ini = n
	}
	fin := ini + limit
	if fin > n {
		fin = n
	}
	return ini, fin
}

func noEncontrado(entidad string) error {
	return apierror.NoEncontrado("%s no encontrado", entidad)
}

func duplicado(entidad string) error {
	return apierror.Conflicto("ya existe un %s con esos datos", entidad)
}
