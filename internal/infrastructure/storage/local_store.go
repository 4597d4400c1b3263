package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// LocalStore guarda archivos de evidencia en disco bajo un directorio
// raíz, con un subdirectorio por actividad. Satisface el puerto
// FileStore del caso de uso de evidencias.
type LocalStore struct {
	dir string
}

// NewLocalStore construye el almacén y asegura el directorio raíz.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("crear directorio de almacenamiento: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

// Save escribe el contenido bajo <dir>/<actividadID>/ con un nombre
// único que preserva la extensión original. Devuelve la ruta relativa.
func (s *LocalStore) Save(actividadID, nombre string, contenido []byte) (string, error) {
	subdir := filepath.Join(s.dir, actividadID)
	if err := os.MkdirAll(subdir, 0o755); err != nil {
		return "", fmt.Errorf("crear directorio de actividad: %w", err)
	}
	ext := filepath.Ext(nombre)
	unico := fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), uuid.New().String()[:8], ext)
	full := filepath.Join(subdir, unico)
	if err := os.WriteFile(full, contenido, 0o644); err != nil {
		return "", fmt.Errorf("escribir archivo: %w", err)
	}
	return filepath.Join(actividadID, unico), nil
}

// Open lee el archivo por su ruta relativa. Rechaza rutas que escapen
// del directorio raíz.
func (s *LocalStore) Open(path string) ([]byte, error) {
	full, err := s.resolve(path)
	if err != nil {
		return nil, err
	}
	contenido, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("leer archivo: %w", err)
	}
	return contenido, nil
}

// Delete borra el archivo por su ruta relativa. Borrar un archivo que
// ya no existe no es un error.
func (s *LocalStore) Delete(path string) error {
	full, err := s.resolve(path)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("borrar archivo: %w", err)
	}
	return nil
}

func (s *LocalStore) resolve(path string) (string, error) {
	clean := filepath.Clean(path)
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("ruta inválida: %s", path)
	}
	return filepath.Join(s.dir, clean), nil
}
