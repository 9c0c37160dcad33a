package handlers

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/roboclub/club-api/config"
	"github.com/roboclub/club-api/databases"
	"github.com/roboclub/club-api/models"
)

// Inventory exported for testing purposes
type Inventory struct {
	DB  databases.ComponentDatabase
	DLD databases.DamagedLogDatabase
}

type componentRequest struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
	Quantity    int    `json:"quantity"`
}

type damageReportRequest struct {
	Quantity   int    `json:"quantity"`
	Reason     string `json:"reason"`
	ReportedBy string `json:"reportedBy"`
}

// ComponentsHandler returns the inventory, optionally filtered by ?type= and
// a case-insensitive ?search= on the name
func (i Inventory) ComponentsHandler(w http.ResponseWriter, r *http.Request) {
	filter := bson.M{}
	if t := r.URL.Query().Get("type"); t != "" {
		componentType := models.ComponentType(strings.ToUpper(t))
		if !componentType.IsValid() {
			config.ErrorStatus("invalid component type", http.StatusBadRequest, w, nil)
			return
		}
		filter["type"] = componentType
	}
	if search := r.URL.Query().Get("search"); search != "" {
		filter["name"] = bson.M{"$regex": search, "$options": "i"}
	}

	limit := int64(getLimit(r))
	skip := int64(getPage(r)) * limit
	opts := options.Find().
		SetSort(bson.M{"name": 1}).
		SetLimit(limit).
		SetSkip(skip)

	components, err := i.DB.Find(r.Context(), filter, opts)
	if err != nil {
		config.ErrorStatus("failed to get inventory", http.StatusNotFound, w, err)
		return
	}
	if len(components) == 0 {
		components = []models.Component{}
	}

	b, err := json.Marshal(components)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// ComponentByIDHandler returns a single component by ID
func (i Inventory) ComponentByIDHandler(w http.ResponseWriter, r *http.Request) {
	componentID := mux.Vars(r)["component_id"]

	cID, err := primitive.ObjectIDFromHex(componentID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	component, err := i.DB.FindOne(r.Context(), bson.M{"_id": cID})
	if err != nil {
		config.ErrorStatus("component not found", http.StatusNotFound, w, err)
		return
	}

	b, err := json.Marshal(component)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// CreateComponentHandler adds a new component to the inventory with its full
// quantity available
func (i Inventory) CreateComponentHandler(w http.ResponseWriter, r *http.Request) {
	var req componentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	component, errMsg := buildComponent(req)
	if errMsg != "" {
		config.ErrorStatus(errMsg, http.StatusBadRequest, w, nil)
		return
	}

	if _, err := i.DB.InsertOne(r.Context(), component); err != nil {
		config.ErrorStatus("failed to create component", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(component)
}

func buildComponent(req componentRequest) (models.Component, string) {
	if req.Name == "" {
		return models.Component{}, "component name is required"
	}
	componentType := models.ComponentType(strings.ToUpper(req.Type))
	if !componentType.IsValid() {
		return models.Component{}, "invalid component type"
	}
	if req.Quantity < 0 {
		return models.Component{}, "quantity must not be negative"
	}

	now := primitive.NewDateTimeFromTime(time.Now())
	return models.Component{
		ID:                primitive.NewObjectID(),
		Name:              req.Name,
		Type:              componentType,
		Description:       req.Description,
		ImageURL:          req.ImageURL,
		Quantity:          req.Quantity,
		AvailableQuantity: req.Quantity,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, ""
}

// UpdateComponentHandler edits a component's descriptive fields and total
// quantity. A quantity change moves availableQuantity by the same delta, and
// is refused when that would cut into units currently out on loan.
func (i Inventory) UpdateComponentHandler(w http.ResponseWriter, r *http.Request) {
	componentID := mux.Vars(r)["component_id"]

	cID, err := primitive.ObjectIDFromHex(componentID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	var req componentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	component, err := i.DB.FindOne(r.Context(), bson.M{"_id": cID})
	if err != nil {
		config.ErrorStatus("component not found", http.StatusNotFound, w, err)
		return
	}

	set := bson.M{"updatedAt": primitive.NewDateTimeFromTime(time.Now())}
	if req.Name != "" {
		set["name"] = req.Name
	}
	if req.Type != "" {
		componentType := models.ComponentType(strings.ToUpper(req.Type))
		if !componentType.IsValid() {
			config.ErrorStatus("invalid component type", http.StatusBadRequest, w, nil)
			return
		}
		set["type"] = componentType
	}
	if req.Description != "" {
		set["description"] = req.Description
	}
	if req.ImageURL != "" {
		set["imageUrl"] = req.ImageURL
	}

	update := bson.M{"$set": set}
	filter := bson.M{"_id": cID}
	if req.Quantity > 0 && req.Quantity != component.Quantity {
		delta := req.Quantity - component.Quantity
		onLoan := component.Quantity - component.AvailableQuantity
		if req.Quantity < onLoan {
			config.ErrorStatus("quantity cannot drop below units currently on loan", http.StatusConflict, w, nil)
			return
		}
		// guard against a racing issuance approval
		filter["availableQuantity"] = bson.M{"$gte": -delta}
		update["$inc"] = bson.M{"quantity": delta, "availableQuantity": delta}
	}

	res, err := i.DB.UpdateOne(r.Context(), filter, update)
	if err != nil {
		config.ErrorStatus("failed to update component", http.StatusInternalServerError, w, err)
		return
	}
	if res.MatchedCount == 0 {
		config.ErrorStatus("quantity cannot drop below units currently on loan", http.StatusConflict, w, nil)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Component updated successfully",
	})
}

// DeleteComponentHandler removes a component that has no units out on loan
func (i Inventory) DeleteComponentHandler(w http.ResponseWriter, r *http.Request) {
	componentID := mux.Vars(r)["component_id"]

	cID, err := primitive.ObjectIDFromHex(componentID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	component, err := i.DB.FindOne(r.Context(), bson.M{"_id": cID})
	if err != nil {
		config.ErrorStatus("component not found", http.StatusNotFound, w, err)
		return
	}
	if component.AvailableQuantity < component.Quantity {
		config.ErrorStatus("component has units out on loan", http.StatusConflict, w, nil)
		return
	}

	if err := i.DB.DeleteOne(r.Context(), bson.M{"_id": cID}); err != nil {
		config.ErrorStatus("failed to delete component", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Component deleted successfully",
	})
}

// ImportComponentsHandler bulk-creates components from an uploaded CSV with
// header name,type,description,quantity. Rows that fail validation are
// skipped and reported back; valid rows are still imported.
func (i Inventory) ImportComponentsHandler(w http.ResponseWriter, r *http.Request) {
	file, _, err := r.FormFile("file")
	if err != nil {
		config.ErrorStatus("failed to read uploaded file", http.StatusBadRequest, w, err)
		return
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		config.ErrorStatus("failed to read csv header", http.StatusBadRequest, w, err)
		return
	}
	col := map[string]int{}
	for idx, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = idx
	}
	for _, required := range []string{"name", "type", "quantity"} {
		if _, ok := col[required]; !ok {
			config.ErrorStatus(fmt.Sprintf("csv is missing required column %q", required), http.StatusBadRequest, w, nil)
			return
		}
	}

	var imported int
	var skipped []string
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			skipped = append(skipped, fmt.Sprintf("line %d: %v", line, err))
			continue
		}

		req := componentRequest{
			Name: strings.TrimSpace(record[col["name"]]),
			Type: strings.TrimSpace(record[col["type"]]),
		}
		if idx, ok := col["description"]; ok && idx < len(record) {
			req.Description = strings.TrimSpace(record[idx])
		}
		quantity, err := strconv.Atoi(strings.TrimSpace(record[col["quantity"]]))
		if err != nil {
			skipped = append(skipped, fmt.Sprintf("line %d: invalid quantity", line))
			continue
		}
		req.Quantity = quantity

		component, errMsg := buildComponent(req)
		if errMsg != "" {
			skipped = append(skipped, fmt.Sprintf("line %d: %s", line, errMsg))
			continue
		}
		if _, err := i.DB.InsertOne(r.Context(), component); err != nil {
			skipped = append(skipped, fmt.Sprintf("line %d: %v", line, err))
			continue
		}
		imported++
	}

	if skipped == nil {
		skipped = []string{}
	}
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"imported": imported,
		"skipped":  skipped,
	})
}

// ExportComponentsHandler streams the full inventory as a CSV download
func (i Inventory) ExportComponentsHandler(w http.ResponseWriter, r *http.Request) {
	components, err := i.DB.Find(r.Context(), bson.M{}, options.Find().SetSort(bson.M{"name": 1}))
	if err != nil {
		config.ErrorStatus("failed to get inventory", http.StatusInternalServerError, w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="inventory.csv"`)
	w.WriteHeader(http.StatusOK)

	writer := csv.NewWriter(w)
	writer.Write([]string{"name", "type", "description", "quantity", "availableQuantity"})
	for _, c := range components {
		writer.Write([]string{
			c.Name,
			c.Type.String(),
			c.Description,
			strconv.Itoa(c.Quantity),
			strconv.Itoa(c.AvailableQuantity),
		})
	}
	writer.Flush()
}

// ReportDamageHandler writes off damaged units and appends an entry to the
// damaged log. The write-off is a single conditional update, so it cannot
// take availableQuantity below zero.
func (i Inventory) ReportDamageHandler(w http.ResponseWriter, r *http.Request) {
	componentID := mux.Vars(r)["component_id"]

	cID, err := primitive.ObjectIDFromHex(componentID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	var req damageReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if req.Quantity <= 0 {
		config.ErrorStatus("quantity must be positive", http.StatusBadRequest, w, nil)
		return
	}
	if req.Reason == "" {
		config.ErrorStatus("reason is required", http.StatusBadRequest, w, nil)
		return
	}

	component, err := i.DB.FindOne(r.Context(), bson.M{"_id": cID})
	if err != nil {
		config.ErrorStatus("component not found", http.StatusNotFound, w, err)
		return
	}

	ok, err := i.DB.WriteOff(r.Context(), cID, req.Quantity)
	if err != nil {
		config.ErrorStatus("failed to write off damaged units", http.StatusInternalServerError, w, err)
		return
	}
	if !ok {
		config.ErrorStatus("not enough available units to write off", http.StatusConflict, w, nil)
		return
	}

	entry := models.DamagedLog{
		ID:            primitive.NewObjectID(),
		ComponentID:   cID,
		ComponentName: component.Name,
		Quantity:      req.Quantity,
		Reason:        req.Reason,
		ReportedBy:    req.ReportedBy,
		Date:          primitive.NewDateTimeFromTime(time.Now()),
	}
	if _, err := i.DLD.InsertOne(r.Context(), entry); err != nil {
		config.ErrorStatus("failed to record damaged log", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(entry)
}

// DamagedLogsHandler returns the damage history, newest first, optionally
// filtered by ?componentId=
func (i Inventory) DamagedLogsHandler(w http.ResponseWriter, r *http.Request) {
	filter := bson.M{}
	if componentID := r.URL.Query().Get("componentId"); componentID != "" {
		cID, err := primitive.ObjectIDFromHex(componentID)
		if err != nil {
			config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
			return
		}
		filter["componentId"] = cID
	}

	limit := int64(getLimit(r))
	skip := int64(getPage(r)) * limit
	opts := options.Find().
		SetSort(bson.M{"date": -1}).
		SetLimit(limit).
		SetSkip(skip)

	logs, err := i.DLD.Find(r.Context(), filter, opts)
	if err != nil {
		config.ErrorStatus("failed to get damaged logs", http.StatusNotFound, w, err)
		return
	}
	if len(logs) == 0 {
		logs = []models.DamagedLog{}
	}

	b, err := json.Marshal(logs)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
