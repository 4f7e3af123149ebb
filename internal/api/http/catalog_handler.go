package http

import (
	"net/http"
	"path/filepath"

	"github.com/gorilla/mux"

	"openshelf-backend/internal/domain"
	"openshelf-backend/internal/service"
)

// maxCoverImageBytes caps cover uploads at 5 MiB.
const maxCoverImageBytes = 5 << 20

type CatalogHandler struct {
	catalogSvc service.CatalogService
}

func NewCatalogHandler(catalogSvc service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogSvc: catalogSvc}
}

func (h *CatalogHandler) CreateMaterial(w http.ResponseWriter, r *http.Request) {
	var m domain.Material
	if !decodeBody(w, r, &m) {
		return
	}
	if m.Title == "" || m.MaterialType == "" {
		writeBadRequest(w, "title and material_type are required")
		return
	}

	if err := h.catalogSvc.CreateMaterial(r.Context(), &m); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

func (h *CatalogHandler) GetMaterial(w http.ResponseWriter, r *http.Request) {
	materialID, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid material id")
		return
	}
	m, copies, err := h.catalogSvc.GetMaterial(r.Context(), materialID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"material": m, "copies": copies})
}

func (h *CatalogHandler) UpdateMaterial(w http.ResponseWriter, r *http.Request) {
	materialID, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid material id")
		return
	}
	var m domain.Material
	if !decodeBody(w, r, &m) {
		return
	}
	m.ID = materialID

	if err := h.catalogSvc.UpdateMaterial(r.Context(), &m); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *CatalogHandler) DeleteMaterial(w http.ResponseWriter, r *http.Request) {
	materialID, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid material id")
		return
	}
	if err := h.catalogSvc.DeleteMaterial(r.Context(), materialID); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "material deleted")
}

func (h *CatalogHandler) SearchMaterials(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	materials, total, err := h.catalogSvc.SearchMaterials(r.Context(),
		q.Get("query"), q.Get("type"), queryInt32(r, "page", 1), queryInt32(r, "page_size", 20))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"materials": materials, "total": total})
}

// UploadCover accepts a multipart form with a "cover" file field.
func (h *CatalogHandler) UploadCover(w http.ResponseWriter, r *http.Request) {
	materialID, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid material id")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxCoverImageBytes)
	file, header, err := r.FormFile("cover")
	if err != nil {
		writeBadRequest(w, "a cover file is required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	switch contentType {
	case "image/jpeg", "image/png", "image/webp":
	default:
		writeBadRequest(w, "cover must be a jpeg, png or webp image")
		return
	}

	url, err := h.catalogSvc.UploadCoverImage(r.Context(), materialID, header.Filename, contentType, file)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"cover_image_url": url})
}

func (h *CatalogHandler) AddCopy(w http.ResponseWriter, r *http.Request) {
	var c domain.Copy
	if !decodeBody(w, r, &c) {
		return
	}
	if c.MaterialID == 0 || c.BranchID == 0 || c.Barcode == "" {
		writeBadRequest(w, "material_id, branch_id and barcode are required")
		return
	}

	if err := h.catalogSvc.AddCopy(r.Context(), &c); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *CatalogHandler) GetCopyByBarcode(w http.ResponseWriter, r *http.Request) {
	barcode := mux.Vars(r)["barcode"]
	c, err := h.catalogSvc.GetCopyByBarcode(r.Context(), barcode)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *CatalogHandler) UpdateCopy(w http.ResponseWriter, r *http.Request) {
	copyID, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid copy id")
		return
	}
	var c domain.Copy
	if !decodeBody(w, r, &c) {
		return
	}
	c.ID = copyID

	if err := h.catalogSvc.UpdateCopy(r.Context(), &c); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *CatalogHandler) BranchCopies(w http.ResponseWriter, r *http.Request) {
	branchID, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid branch id")
		return
	}
	copies, total, err := h.catalogSvc.ListCopiesByBranch(r.Context(), branchID,
		queryInt32(r, "page", 1), queryInt32(r, "page_size", 20))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"copies": copies, "total": total})
}

func (h *CatalogHandler) CreateBranch(w http.ResponseWriter, r *http.Request) {
	var b domain.Branch
	if !decodeBody(w, r, &b) {
		return
	}
	if b.Name == "" || b.Address == "" {
		writeBadRequest(w, "name and address are required")
		return
	}

	if err := h.catalogSvc.CreateBranch(r.Context(), &b); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

func (h *CatalogHandler) ListBranches(w http.ResponseWriter, r *http.Request) {
	branches, err := h.catalogSvc.ListBranches(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, branches)
}

// imageContentType guesses a Content-Type from the stored key.
func imageContentType(key string) string {
	switch filepath.Ext(key) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	}
	return "application/octet-stream"
}
