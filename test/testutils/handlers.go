package testutils

import (
	"encoding/json"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/Hung484/todo-app-frontend-1234/model"

	"github.com/gin-gonic/gin"
)

type registerBody struct {
	Username string `json:"username" binding:"required,min=3,max=30"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type loginBody struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type listBody struct {
	Title string `json:"title" binding:"required"`
}

type createTaskBody struct {
	ListID       string              `json:"listId" binding:"required"`
	Title        string              `json:"title" binding:"required"`
	Description  string              `json:"description"`
	DueDate      *time.Time          `json:"dueDate"`
	Priority     model.Priority      `json:"priority"`
	ReminderTime *time.Time          `json:"reminderTime"`
	ReminderType *model.ReminderType `json:"reminderType"`
}

func (f *FakeAPI) routes() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), f.intercept())

	api := r.Group("/api")
	auth := api.Group("/auth")
	auth.POST("/register", f.register)
	auth.POST("/login", f.login)
	auth.GET("/profile", f.authRequired(), f.profile)

	lists := api.Group("/lists", f.authRequired())
	lists.GET("", f.getLists)
	lists.POST("", f.createList)
	lists.GET("/:id", f.getList)
	lists.PUT("/:id", f.updateList)
	lists.DELETE("/:id", f.deleteList)

	tasks := api.Group("/tasks", f.authRequired())
	tasks.GET("/list/:listId", f.getTasks)
	tasks.POST("", f.createTask)
	tasks.GET("/:id", f.getTask)
	tasks.PUT("/:id", f.updateTask)
	tasks.DELETE("/:id", f.deleteTask)

	return r
}

// intercept counts requests and applies Fail and Hold.
func (f *FakeAPI) intercept() gin.HandlerFunc {
	return func(c *gin.Context) {
		f.requests.Add(1)
		key := c.Request.Method + " " + strings.TrimPrefix(c.Request.URL.Path, "/api")

		f.mu.Lock()
		f.lastCalls = append(f.lastCalls, Call{
			Method:        c.Request.Method,
			Path:          c.Request.URL.Path,
			Authorization: c.GetHeader("Authorization"),
			RequestID:     c.GetHeader("X-Request-ID"),
			UserAgent:     c.Request.UserAgent(),
		})
		failure, failing := f.failures[key]
		hold := f.holds[key]
		f.mu.Unlock()

		if hold != nil {
			select {
			case <-hold:
			case <-c.Request.Context().Done():
				c.Abort()
				return
			}
		}
		if failing {
			if failure.Body == nil {
				c.AbortWithStatus(failure.Status)
				return
			}
			c.AbortWithStatusJSON(failure.Status, failure.Body)
			return
		}
		c.Next()
	}
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"message": message})
}

func (f *FakeAPI) register(c *gin.Context) {
	var body registerBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid registration data")
		return
	}
	hash, err := hashPassword(body.Password)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	f.mu.Lock()
	if _, taken := f.emails[strings.ToLower(body.Email)]; taken {
		f.mu.Unlock()
		respondError(c, http.StatusConflict, "User already exists")
		return
	}
	user := f.addUserLocked(body.Username, body.Email, hash)
	f.mu.Unlock()

	c.JSON(http.StatusCreated, gin.H{"token": f.IssueToken(user.UserID), "user": user})
}

func (f *FakeAPI) login(c *gin.Context) {
	var body loginBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, http.StatusBadRequest, "Email and password are required")
		return
	}

	f.mu.Lock()
	var user *fakeUser
	if id, ok := f.emails[strings.ToLower(body.Email)]; ok {
		user = f.users[id]
	}
	f.mu.Unlock()

	if user == nil || !verifyPassword(user.passwordHash, body.Password) {
		respondError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	f.recordLogin(user.UserID, c.Request)
	c.JSON(http.StatusOK, gin.H{"token": f.IssueToken(user.UserID), "user": user.User})
}

func (f *FakeAPI) profile(c *gin.Context) {
	f.mu.Lock()
	user, ok := f.users[c.GetString("user_id")]
	var out model.User
	if ok {
		out = user.User
	}
	f.mu.Unlock()
	if !ok {
		respondError(c, http.StatusNotFound, "User not found")
		return
	}
	c.JSON(http.StatusOK, out)
}

func (f *FakeAPI) getLists(c *gin.Context) {
	userID := c.GetString("user_id")
	f.mu.Lock()
	out := make([]model.TodoList, 0)
	for _, l := range f.lists {
		if l.ownerID == userID {
			out = append(out, l.TodoList)
		}
	}
	f.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	c.JSON(http.StatusOK, out)
}

func (f *FakeAPI) getList(c *gin.Context) {
	f.mu.Lock()
	list, ok := f.ownedListLocked(c.GetString("user_id"), c.Param("id"))
	f.mu.Unlock()
	if !ok {
		respondError(c, http.StatusNotFound, "Todo list not found")
		return
	}
	c.JSON(http.StatusOK, list)
}

func (f *FakeAPI) createList(c *gin.Context) {
	var body listBody
	if err := c.ShouldBindJSON(&body); err != nil || strings.TrimSpace(body.Title) == "" {
		respondError(c, http.StatusBadRequest, "Title is required")
		return
	}
	list := f.SeedList(c.GetString("user_id"), body.Title)
	c.JSON(http.StatusCreated, list)
}

func (f *FakeAPI) updateList(c *gin.Context) {
	var body listBody
	if err := c.ShouldBindJSON(&body); err != nil || strings.TrimSpace(body.Title) == "" {
		respondError(c, http.StatusBadRequest, "Title is required")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.ownedListLocked(c.GetString("user_id"), c.Param("id")); !ok {
		respondError(c, http.StatusNotFound, "Todo list not found")
		return
	}
	list := f.lists[c.Param("id")]
	now := time.Now().UTC()
	list.Title = body.Title
	list.UpdatedAt = &now
	c.JSON(http.StatusOK, list.TodoList)
}

func (f *FakeAPI) deleteList(c *gin.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := c.Param("id")
	if _, ok := f.ownedListLocked(c.GetString("user_id"), id); !ok {
		respondError(c, http.StatusNotFound, "Todo list not found")
		return
	}
	delete(f.lists, id)
	for taskID, t := range f.tasks {
		if t.ListID == id {
			delete(f.tasks, taskID)
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "Todo list deleted"})
}

func (f *FakeAPI) getTasks(c *gin.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	listID := c.Param("listId")
	if _, ok := f.ownedListLocked(c.GetString("user_id"), listID); !ok {
		respondError(c, http.StatusNotFound, "Todo list not found")
		return
	}
	out := make([]model.Task, 0)
	for _, t := range f.tasks {
		if t.ListID == listID {
			out = append(out, cloneTask(t))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	c.JSON(http.StatusOK, out)
}

func (f *FakeAPI) getTask(c *gin.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	task, ok := f.ownedTaskLocked(c.GetString("user_id"), c.Param("id"))
	if !ok {
		respondError(c, http.StatusNotFound, "Task not found")
		return
	}
	c.JSON(http.StatusOK, cloneTask(task))
}

func (f *FakeAPI) createTask(c *gin.Context) {
	var body createTaskBody
	if err := c.ShouldBindJSON(&body); err != nil || strings.TrimSpace(body.Title) == "" {
		respondError(c, http.StatusBadRequest, "Title is required")
		return
	}
	if body.DueDate != nil && body.ReminderTime != nil && !body.ReminderTime.Before(*body.DueDate) {
		respondError(c, http.StatusBadRequest, "Reminder time must be before the due date")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.ownedListLocked(c.GetString("user_id"), body.ListID); !ok {
		respondError(c, http.StatusNotFound, "Todo list not found")
		return
	}

	now := time.Now().UTC()
	priority := body.Priority
	if priority == 0 {
		priority = model.PriorityMedium
	}
	task := &model.Task{
		TaskID:      newID(),
		ListID:      body.ListID,
		Title:       body.Title,
		Description: body.Description,
		Status:      model.StatusPending,
		DueDate:     body.DueDate,
		Priority:    priority,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if body.ReminderTime != nil {
		kind := model.ReminderPush
		if body.ReminderType != nil {
			kind = *body.ReminderType
		}
		task.Reminder = &model.Reminder{
			ReminderID:   newID(),
			TaskID:       task.TaskID,
			ReminderTime: *body.ReminderTime,
			Type:         kind,
			CreatedAt:    now,
		}
	}
	f.tasks[task.TaskID] = task
	c.JSON(http.StatusCreated, cloneTask(task))
}

// updateTask applies only the keys present in the body. A null dueDate or
// reminderTime clears the stored value.
func (f *FakeAPI) updateTask(c *gin.Context) {
	var body map[string]json.RawMessage
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid task data")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.ownedTaskLocked(c.GetString("user_id"), c.Param("id"))
	if !ok {
		respondError(c, http.StatusNotFound, "Task not found")
		return
	}
	task := cloneTask(stored)

	bad := func(msg string) { respondError(c, http.StatusBadRequest, msg) }
	isNull := func(raw json.RawMessage) bool { return string(raw) == "null" }

	if raw, ok := body["title"]; ok {
		if json.Unmarshal(raw, &task.Title) != nil || strings.TrimSpace(task.Title) == "" {
			bad("Title is required")
			return
		}
	}
	if raw, ok := body["description"]; ok {
		task.Description = ""
		if !isNull(raw) && json.Unmarshal(raw, &task.Description) != nil {
			bad("Invalid description")
			return
		}
	}
	if raw, ok := body["status"]; ok {
		if json.Unmarshal(raw, &task.Status) != nil || !task.Status.Valid() {
			bad("Invalid status")
			return
		}
	}
	if raw, ok := body["priority"]; ok {
		if json.Unmarshal(raw, &task.Priority) != nil || !task.Priority.Valid() {
			bad("Invalid priority")
			return
		}
	}
	if raw, ok := body["dueDate"]; ok {
		task.DueDate = nil
		if !isNull(raw) {
			var due time.Time
			if json.Unmarshal(raw, &due) != nil {
				bad("Invalid due date")
				return
			}
			task.DueDate = &due
		}
	}
	if raw, ok := body["reminderTime"]; ok {
		if isNull(raw) {
			task.Reminder = nil
		} else {
			var at time.Time
			if json.Unmarshal(raw, &at) != nil {
				bad("Invalid reminder time")
				return
			}
			if task.Reminder == nil {
				task.Reminder = &model.Reminder{
					ReminderID: newID(),
					TaskID:     task.TaskID,
					Type:       model.ReminderPush,
					CreatedAt:  time.Now().UTC(),
				}
			}
			task.Reminder.ReminderTime = at
		}
	}
	if raw, ok := body["reminderType"]; ok && !isNull(raw) && task.Reminder != nil {
		if json.Unmarshal(raw, &task.Reminder.Type) != nil || !task.Reminder.Type.Valid() {
			bad("Invalid reminder type")
			return
		}
	}
	if task.DueDate != nil && task.Reminder != nil && !task.Reminder.ReminderTime.Before(*task.DueDate) {
		bad("Reminder time must be before the due date")
		return
	}

	task.UpdatedAt = time.Now().UTC()
	f.tasks[task.TaskID] = &task
	c.JSON(http.StatusOK, cloneTask(&task))
}

func (f *FakeAPI) deleteTask(c *gin.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := c.Param("id")
	if _, ok := f.ownedTaskLocked(c.GetString("user_id"), id); !ok {
		respondError(c, http.StatusNotFound, "Task not found")
		return
	}
	delete(f.tasks, id)
	c.Status(http.StatusNoContent)
}

func (f *FakeAPI) ownedListLocked(userID, listID string) (model.TodoList, bool) {
	list, ok := f.lists[listID]
	if !ok || list.ownerID != userID {
		return model.TodoList{}, false
	}
	return list.TodoList, true
}

func (f *FakeAPI) ownedTaskLocked(userID, taskID string) (*model.Task, bool) {
	task, ok := f.tasks[taskID]
	if !ok {
		return nil, false
	}
	if _, owned := f.ownedListLocked(userID, task.ListID); !owned {
		return nil, false
	}
	return task, true
}
