package main

import (
	"net/http"

	"spanco/internal/domain/catalog"

	"github.com/go-chi/chi/v5"
)

type LabCategoryPayload struct {
	Name              string `json:"name"`
	ParentSubcategory string `json:"parentSubcategory"`
}

// listLabCategoriesHandler godoc
//
//	@Summary		List lab categories
//	@Tags			labcategories
//	@Produce		json
//	@Success		200	{array}	catalog.LabCategory
//	@Router			/labcategories [get]
func (app *application) listLabCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	labs, err := app.catalog.ListLabCategories(r.Context())
	if err != nil {
		app.domainError(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, labs); err != nil {
		app.internalServerError(w, r, err)
	}
}

// listLabCategoriesBySubcategoryHandler godoc
//
//	@Summary		List lab categories of a subcategory
//	@Tags			labcategories
//	@Produce		json
//	@Param			subcategoryID	path	string	true	"Subcategory ID"
//	@Success		200				{array}	catalog.LabCategory
//	@Router			/labcategories/subcategory/{subcategoryID} [get]
func (app *application) listLabCategoriesBySubcategoryHandler(w http.ResponseWriter, r *http.Request) {
	labs, err := app.catalog.ListLabCategoriesBySubcategory(r.Context(), chi.URLParam(r, "subcategoryID"))
	if err != nil {
		app.domainError(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, labs); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getLabCategoryHandler godoc
//
//	@Summary		Get lab category
//	@Tags			labcategories
//	@Produce		json
//	@Param			id	path		string	true	"Lab category ID"
//	@Success		200	{object}	catalog.LabCategory
//	@Failure		404	{object}	messageEnvelope
//	@Router			/labcategories/{id} [get]
func (app *application) getLabCategoryHandler(w http.ResponseWriter, r *http.Request) {
	lab, err := app.catalog.GetLabCategory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		app.domainError(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, lab); err != nil {
		app.internalServerError(w, r, err)
	}
}

// createLabCategoryHandler godoc
//
//	@Summary		Create lab category
//	@Tags			labcategories
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		LabCategoryPayload	true	"Lab category"
//	@Success		201		{object}	catalog.LabCategory
//	@Failure		400		{object}	messageEnvelope
//	@Failure		404		{object}	messageEnvelope
//	@Security		ApiKeyAuth
//	@Router			/labcategories [post]
func (app *application) createLabCategoryHandler(w http.ResponseWriter, r *http.Request) {
	var payload LabCategoryPayload
	if err := readJSONLoose(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	lab, err := app.catalog.CreateLabCategory(r.Context(), catalog.LabCategoryInput{
		Name:                payload.Name,
		ParentSubcategoryID: payload.ParentSubcategory,
	})
	if err != nil {
		app.domainError(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, lab); err != nil {
		app.internalServerError(w, r, err)
	}
}

// updateLabCategoryHandler godoc
//
//	@Summary		Update lab category
//	@Tags			labcategories
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"Lab category ID"
//	@Param			payload	body		LabCategoryPayload	true	"Lab category"
//	@Success		200		{object}	catalog.LabCategory
//	@Failure		400		{object}	messageEnvelope
//	@Failure		404		{object}	messageEnvelope
//	@Security		ApiKeyAuth
//	@Router			/labcategories/{id} [put]
func (app *application) updateLabCategoryHandler(w http.ResponseWriter, r *http.Request) {
	var payload LabCategoryPayload
	if err := readJSONLoose(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	lab, err := app.catalog.UpdateLabCategory(r.Context(), chi.URLParam(r, "id"), catalog.LabCategoryInput{
		Name:                payload.Name,
		ParentSubcategoryID: payload.ParentSubcategory,
	})
	if err != nil {
		app.domainError(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, lab); err != nil {
		app.internalServerError(w, r, err)
	}
}

// deleteLabCategoryHandler godoc
//
//	@Summary		Delete lab category
//	@Tags			labcategories
//	@Produce		json
//	@Param			id	path		string	true	"Lab category ID"
//	@Success		200	{object}	messageEnvelope
//	@Failure		404	{object}	messageEnvelope
//	@Security		ApiKeyAuth
//	@Router			/labcategories/{id} [delete]
func (app *application) deleteLabCategoryHandler(w http.ResponseWriter, r *http.Request) {
	if err := app.catalog.DeleteLabCategory(r.Context(), chi.URLParam(r, "id")); err != nil {
		app.domainError(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, &messageEnvelope{Message: "Lab category deleted successfully"}); err != nil {
		app.internalServerError(w, r, err)
	}
}
