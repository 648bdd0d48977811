package main

import (
	"net/http"

	"spanco/internal/domain/catalog"

	"github.com/go-chi/chi/v5"
)

type SubcategoryPayload struct {
	Name             string `json:"name"`
	ParentCategories string `json:"parentCategories"`
	HasLabCategories *bool  `json:"hasLabCategories"`
}

func (p SubcategoryPayload) input() catalog.SubcategoryInput {
	return catalog.SubcategoryInput{
		Name:             p.Name,
		ParentCategoryID: p.ParentCategories,
		HasLabCategories: p.HasLabCategories,
	}
}

// listSubcategoriesHandler godoc
//
//	@Summary		List subcategories
//	@Description	All subcategories, newest first, with the parent category name
//	@Tags			subcategories
//	@Produce		json
//	@Success		200	{array}	catalog.Subcategory
//	@Router			/subcategories [get]
func (app *application) listSubcategoriesHandler(w http.ResponseWriter, r *http.Request) {
	subs, err := app.catalog.ListSubcategories(r.Context())
	if err != nil {
		app.domainError(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, subs); err != nil {
		app.internalServerError(w, r, err)
	}
}

// listSubcategoriesByCategoryHandler godoc
//
//	@Summary		List subcategories of a category
//	@Tags			subcategories
//	@Produce		json
//	@Param			categoryID	path	string	true	"Category ID"
//	@Success		200			{array}	catalog.Subcategory
//	@Router			/subcategories/category/{categoryID} [get]
func (app *application) listSubcategoriesByCategoryHandler(w http.ResponseWriter, r *http.Request) {
	subs, err := app.catalog.ListSubcategoriesByCategory(r.Context(), chi.URLParam(r, "categoryID"))
	if err != nil {
		app.domainError(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, subs); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getSubcategoryHandler godoc
//
//	@Summary		Get subcategory
//	@Tags			subcategories
//	@Produce		json
//	@Param			id	path		string	true	"Subcategory ID"
//	@Success		200	{object}	catalog.Subcategory
//	@Failure		404	{object}	messageEnvelope
//	@Router			/subcategories/{id} [get]
func (app *application) getSubcategoryHandler(w http.ResponseWriter, r *http.Request) {
	sub, err := app.catalog.GetSubcategory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		app.domainError(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, sub); err != nil {
		app.internalServerError(w, r, err)
	}
}

// createSubcategoryHandler godoc
//
//	@Summary		Create subcategory
//	@Tags			subcategories
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		SubcategoryPayload	true	"Subcategory"
//	@Success		201		{object}	catalog.Subcategory
//	@Failure		400		{object}	messageEnvelope
//	@Failure		404		{object}	messageEnvelope
//	@Security		ApiKeyAuth
//	@Router			/subcategories [post]
func (app *application) createSubcategoryHandler(w http.ResponseWriter, r *http.Request) {
	var payload SubcategoryPayload
	if err := readJSONLoose(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	sub, err := app.catalog.CreateSubcategory(r.Context(), payload.input())
	if err != nil {
		app.domainError(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, sub); err != nil {
		app.internalServerError(w, r, err)
	}
}

// updateSubcategoryHandler godoc
//
//	@Summary		Update subcategory
//	@Description	Only the supplied fields change
//	@Tags			subcategories
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"Subcategory ID"
//	@Param			payload	body		SubcategoryPayload	true	"Subcategory"
//	@Success		200		{object}	catalog.Subcategory
//	@Failure		400		{object}	messageEnvelope
//	@Failure		404		{object}	messageEnvelope
//	@Security		ApiKeyAuth
//	@Router			/subcategories/{id} [put]
func (app *application) updateSubcategoryHandler(w http.ResponseWriter, r *http.Request) {
	var payload SubcategoryPayload
	if err := readJSONLoose(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	sub, err := app.catalog.UpdateSubcategory(r.Context(), chi.URLParam(r, "id"), payload.input())
	if err != nil {
		app.domainError(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, sub); err != nil {
		app.internalServerError(w, r, err)
	}
}

// deleteSubcategoryHandler godoc
//
//	@Summary		Delete subcategory
//	@Description	Refused while lab categories still belong to the subcategory
//	@Tags			subcategories
//	@Produce		json
//	@Param			id	path		string	true	"Subcategory ID"
//	@Success		200	{object}	messageEnvelope
//	@Failure		400	{object}	messageEnvelope
//	@Failure		404	{object}	messageEnvelope
//	@Security		ApiKeyAuth
//	@Router			/subcategories/{id} [delete]
func (app *application) deleteSubcategoryHandler(w http.ResponseWriter, r *http.Request) {
	if err := app.catalog.DeleteSubcategory(r.Context(), chi.URLParam(r, "id")); err != nil {
		app.domainError(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, &messageEnvelope{Message: "Subcategory deleted successfully"}); err != nil {
		app.internalServerError(w, r, err)
	}
}
