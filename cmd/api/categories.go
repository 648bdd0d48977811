package main

import (
	"net/http"

	"spanco/internal/domain/catalog"

	"github.com/go-chi/chi/v5"
)

type CategoryPayload struct {
	Name string `json:"name"`
}

// listCategoriesHandler godoc
//
//	@Summary		List categories
//	@Description	All categories, newest first
//	@Tags			categories
//	@Produce		json
//	@Success		200	{array}		catalog.Category
//	@Failure		500	{object}	messageEnvelope
//	@Router			/categories [get]
func (app *application) listCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	categories, err := app.catalog.ListCategories(r.Context())
	if err != nil {
		app.domainError(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, categories); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getCategoryHandler godoc
//
//	@Summary		Get category
//	@Tags			categories
//	@Produce		json
//	@Param			id	path		string	true	"Category ID"
//	@Success		200	{object}	catalog.Category
//	@Failure		404	{object}	messageEnvelope
//	@Router			/categories/{id} [get]
func (app *application) getCategoryHandler(w http.ResponseWriter, r *http.Request) {
	category, err := app.catalog.GetCategory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		app.domainError(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, category); err != nil {
		app.internalServerError(w, r, err)
	}
}

// createCategoryHandler godoc
//
//	@Summary		Create category
//	@Description	Multipart form with a name and a required image file
//	@Tags			categories
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			name	formData	string	true	"Category name"
//	@Param			image	formData	file	true	"Category image"
//	@Success		201		{object}	catalog.Category
//	@Failure		400		{object}	messageEnvelope
//	@Security		ApiKeyAuth
//	@Router			/categories [post]
func (app *application) createCategoryHandler(w http.ResponseWriter, r *http.Request) {
	in, cleanup, err := app.readCategoryInput(w, r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	defer cleanup()

	category, err := app.catalog.CreateCategory(r.Context(), in)
	if err != nil {
		app.domainError(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, category); err != nil {
		app.internalServerError(w, r, err)
	}
}

// updateCategoryHandler godoc
//
//	@Summary		Update category
//	@Description	Renames the category and/or replaces its image
//	@Tags			categories
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			id		path		string	true	"Category ID"
//	@Param			name	formData	string	false	"Category name"
//	@Param			image	formData	file	false	"Replacement image"
//	@Success		200		{object}	catalog.Category
//	@Failure		400		{object}	messageEnvelope
//	@Failure		404		{object}	messageEnvelope
//	@Security		ApiKeyAuth
//	@Router			/categories/{id} [put]
func (app *application) updateCategoryHandler(w http.ResponseWriter, r *http.Request) {
	in, cleanup, err := app.readCategoryInput(w, r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	defer cleanup()

	category, err := app.catalog.UpdateCategory(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		app.domainError(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, category); err != nil {
		app.internalServerError(w, r, err)
	}
}

// deleteCategoryHandler godoc
//
//	@Summary		Delete category
//	@Description	Refused while subcategories still belong to the category
//	@Tags			categories
//	@Produce		json
//	@Param			id	path		string	true	"Category ID"
//	@Success		200	{object}	messageEnvelope
//	@Failure		400	{object}	messageEnvelope
//	@Failure		404	{object}	messageEnvelope
//	@Security		ApiKeyAuth
//	@Router			/categories/{id} [delete]
func (app *application) deleteCategoryHandler(w http.ResponseWriter, r *http.Request) {
	if err := app.catalog.DeleteCategory(r.Context(), chi.URLParam(r, "id")); err != nil {
		app.domainError(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, &messageEnvelope{Message: "Category deleted successfully"}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// readCategoryInput accepts a multipart form, or a JSON body when only the name changes.
func (app *application) readCategoryInput(w http.ResponseWriter, r *http.Request) (catalog.CategoryInput, func(), error) {
	if !isMultipart(r) {
		var payload CategoryPayload
		if err := readJSONLoose(w, r, &payload); err != nil {
			return catalog.CategoryInput{}, nil, err
		}
		return catalog.CategoryInput{Name: payload.Name}, func() {}, nil
	}

	form, err := parseMultipart(w, r)
	if err != nil {
		return catalog.CategoryInput{}, nil, err
	}
	return catalog.CategoryInput{Name: form.values.Get("name"), Image: form.image}, form.Close, nil
}
