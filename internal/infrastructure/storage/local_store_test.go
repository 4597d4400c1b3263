package storage_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JohanStiven-dev/evidenciastigo/internal/infrastructure/storage"
)

func TestLocalStore_SaveYOpen(t *testing.T) {
	store, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	path, err := store.Save("act-1", "recibo.jpg", []byte("contenido jpg"))
	require.NoError(t, err)
	assert.Contains(t, path, "act-1/", "el archivo vive bajo el directorio de la actividad")
	assert.Contains(t, path, ".jpg", "la extensión original se preserva")

	contenido, err := store.Open(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("contenido jpg"), contenido)
}

func TestLocalStore_NombresUnicosPorArchivo(t *testing.T) {
	store, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	p1, err := store.Save("act-1", "foto.jpg", []byte("a"))
	require.NoError(t, err)
	p2, err := store.Save("act-1", "foto.jpg", []byte("b"))
	require.NoError(t, err)
	assert.NotEqual(t, p1, p2, "dos cargas del mismo nombre no colisionan")
}

func TestLocalStore_RechazaRutasQueEscapan(t *testing.T) {
	store, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Open("../../../etc/passwd")
	assert.Error(t, err)

	_, err = store.Open("/etc/passwd")
	assert.Error(t, err)
}

func TestLocalStore_DeleteIdempotente(t *testing.T) {
	store, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	path, err := store.Save("act-1", "foto.jpg", []byte("a"))
	require.NoError(t, err)

	require.NoError(t, store.Delete(path))
	assert.NoError(t, store.Delete(path), "borrar un archivo ya borrado no es un error")

	_, err = store.Open(path)
	assert.Error(t, err)
}
