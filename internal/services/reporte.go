package services

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"inventario/internal/dto"
	"inventario/internal/repositories"
	"inventario/pkg/types"
)

type ReporteServiceInterface interface {
	ExportEquipos(ctx context.Context) (*bytes.Buffer, error)
	ExportFichas(ctx context.Context, filter dto.FichaAveriaFilterDTO) (*bytes.Buffer, error)
}

// ReporteService genera exportaciones en formato Excel del inventario y de
// las fichas de avería.
type ReporteService struct {
	equipoService EquipoServiceInterface
	fichaRepo     repositories.FichaAveriaRepositoryInterface
	logger        *zap.Logger
}

func NewReporteService(
	equipoService EquipoServiceInterface,
	fichaRepo repositories.FichaAveriaRepositoryInterface,
	logger *zap.Logger,
) ReporteServiceInterface {
	return &ReporteService{
		equipoService: equipoService,
		fichaRepo:     fichaRepo,
		logger:        logger,
	}
}

func writeHeader(f *excelize.File, sheet string, headers []string) error {
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, rowIndex int, values []interface{}) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, rowIndex)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}

func (s *ReporteService) ExportEquipos(ctx context.Context) (*bytes.Buffer, error) {
	equipos, _, err := s.equipoService.GetAll(ctx, types.Filter{})
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	const sheet = "Equipos"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	headers := []string{"ID", "Nombre", "Número de serie", "Modelo", "Marca",
		"Estado", "Ubicación", "Fecha de compra", "Fichas abiertas"}
	if err := writeHeader(f, sheet, headers); err != nil {
		return nil, err
	}

	for i, e := range equipos {
		row := []interface{}{
			e.ID, e.Nombre, e.NumeroSerie, e.Modelo, e.Marca,
			e.Estado, e.Ubicacion.Nombre, e.FechaCompra.Format("02/01/2006"), e.FichasAbiertas,
		}
		if err := writeRow(f, sheet, i+2, row); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("error al generar el Excel de equipos: %w", err)
	}
	return buf, nil
}

func (s *ReporteService) ExportFichas(ctx context.Context, filter dto.FichaAveriaFilterDTO) (*bytes.Buffer, error) {
	fichas, err := s.fichaRepo.Filter(ctx, filter)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	const sheet = "Fichas de avería"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	headers := []string{"ID", "Equipo", "Título", "Estado", "Prioridad",
		"Reportada por", "Asignada a", "Fecha de reporte", "Fecha de resolución"}
	if err := writeHeader(f, sheet, headers); err != nil {
		return nil, err
	}

	for i, ficha := range fichas {
		equipoNombre := ""
		if ficha.Equipo != nil {
			equipoNombre = ficha.Equipo.Nombre
		}
		asignado := ""
		if ficha.UsuarioAsignado != nil {
			asignado = ficha.UsuarioAsignado.Nombre
		}
		resolucion := ""
		if ficha.FechaResolucion.Valid {
			resolucion = ficha.FechaResolucion.Time.Format("02/01/2006 15:04")
		}

		row := []interface{}{
			ficha.ID, equipoNombre, ficha.Titulo, ficha.Estado, ficha.Prioridad.String,
			ficha.UsuarioReporte.Nombre, asignado,
			ficha.FechaReporte.Format("02/01/2006 15:04"), resolucion,
		}
		if err := writeRow(f, sheet, i+2, row); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("error al generar el Excel de fichas: %w", err)
	}
	return buf, nil
}
