package handler

import (
	"net/http"
	"testing"

	"github.com/aipeeri/all-in-one-planner-frchtg/internal/model"
)

func TestFolderCreateDefaults(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(env.alice, "POST", "/api/folders", map[string]any{"name": " Recipes ", "type": "notes"})
	assertStatus(t, rec, http.StatusCreated)

	f := decodeJSON[model.Folder](t, rec)
	if f.Name != "Recipes" {
		t.Errorf("name = %q, want Recipes", f.Name)
	}
	if f.Color != "blue" || f.Icon != "folder" {
		t.Errorf("color/icon = %q/%q, want blue/folder", f.Color, f.Icon)
	}
	if f.UserID != env.alice {
		t.Errorf("userId = %q, want %q", f.UserID, env.alice)
	}
}

func TestFolderCreateValidation(t *testing.T) {
	env := newTestEnv(t)

	assertError(t, env.do(env.alice, "POST", "/api/folders", map[string]any{"type": "notes"}),
		http.StatusBadRequest, "name is required")
	assertError(t, env.do(env.alice, "POST", "/api/folders", map[string]any{"name": "x", "type": "recipes"}),
		http.StatusBadRequest, "type must be one of notes, diet")
	assertError(t, env.do(env.alice, "POST", "/api/folders", "{"),
		http.StatusBadRequest, "invalid JSON")
}

func TestFolderListByType(t *testing.T) {
	env := newTestEnv(t)

	env.do(env.alice, "POST", "/api/folders", map[string]any{"name": "Journal", "type": "notes"})
	env.do(env.alice, "POST", "/api/folders", map[string]any{"name": "Meals", "type": "diet"})
	env.do(env.bob, "POST", "/api/folders", map[string]any{"name": "Bob's", "type": "notes"})

	rec := env.do(env.alice, "GET", "/api/folders?type=diet", nil)
	assertStatus(t, rec, http.StatusOK)
	folders := decodeJSON[[]model.Folder](t, rec)
	if len(folders) != 1 || folders[0].Name != "Meals" {
		t.Errorf("folders = %+v, want [Meals]", folders)
	}

	rec = env.do(env.alice, "GET", "/api/folders", nil)
	if folders := decodeJSON[[]model.Folder](t, rec); len(folders) != 2 {
		t.Errorf("len = %d, want 2", len(folders))
	}

	assertError(t, env.do(env.alice, "GET", "/api/folders?type=x", nil),
		http.StatusBadRequest, "type must be one of notes, diet")
}

func TestFolderCrossUserNotFound(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(env.alice, "POST", "/api/folders", map[string]any{"name": "Private", "type": "notes"})
	f := decodeJSON[model.Folder](t, rec)

	assertError(t, env.do(env.bob, "GET", "/api/folders/"+f.ID, nil), http.StatusNotFound, "folder not found")
	assertError(t, env.do(env.bob, "PUT", "/api/folders/"+f.ID, map[string]any{"name": "Stolen"}), http.StatusNotFound, "folder not found")
	assertError(t, env.do(env.bob, "DELETE", "/api/folders/"+f.ID, nil), http.StatusNotFound, "folder not found")

	rec = env.do(env.alice, "GET", "/api/folders/"+f.ID, nil)
	assertStatus(t, rec, http.StatusOK)
	if got := decodeJSON[model.Folder](t, rec); got.Name != "Private" {
		t.Errorf("name = %q, want Private", got.Name)
	}
}

func TestFolderPartialUpdate(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(env.alice, "POST", "/api/folders", map[string]any{"name": "Work", "type": "notes", "color": "red", "icon": "briefcase"})
	f := decodeJSON[model.Folder](t, rec)

	rec = env.do(env.alice, "PUT", "/api/folders/"+f.ID, `{"name":"Office","color":null}`)
	assertStatus(t, rec, http.StatusOK)
	got := decodeJSON[model.Folder](t, rec)
	if got.Name != "Office" {
		t.Errorf("name = %q, want Office", got.Name)
	}
	if got.Color != "blue" {
		t.Errorf("color = %q, want default blue", got.Color)
	}
	if got.Icon != "briefcase" {
		t.Errorf("icon = %q, want briefcase (untouched)", got.Icon)
	}

	assertError(t, env.do(env.alice, "PUT", "/api/folders/"+f.ID, map[string]any{"type": "videos"}),
		http.StatusBadRequest, "type must be one of notes, diet")
}

func TestFolderDeleteCascadesAndPurgesMedia(t *testing.T) {
	env := newTestEnv(t)

	f := decodeJSON[model.Folder](t, env.do(env.alice, "POST", "/api/folders", map[string]any{"name": "Trip", "type": "notes"}))
	n := decodeJSON[model.Note](t, env.do(env.alice, "POST", "/api/notes", map[string]any{"title": "Photos", "folderId": f.ID}))

	rec := env.upload(env.alice, n.ID, "beach.jpg", "image/jpeg", []byte("jpeg-bytes"))
	assertStatus(t, rec, http.StatusCreated)
	if env.blobs.Len() != 1 {
		t.Fatalf("blobs = %d, want 1", env.blobs.Len())
	}

	assertStatus(t, env.do(env.alice, "DELETE", "/api/folders/"+f.ID, nil), http.StatusNoContent)

	assertStatus(t, env.do(env.alice, "GET", "/api/notes/"+n.ID, nil), http.StatusNotFound)
	if env.blobs.Len() != 0 {
		t.Errorf("blobs = %d after folder delete, want 0", env.blobs.Len())
	}
}
