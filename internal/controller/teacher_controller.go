package controller

import (
	"github.com/gin-gonic/gin"

	"physics_edu_backend/internal/service"
	"physics_edu_backend/internal/util"
)

type TeacherController struct {
	TeacherService  *service.TeacherService
	QuestionService *service.QuestionService
	SubjectService  *service.SubjectService
	Diagrams        *service.DiagramStorage
}

func NewTeacherController(
	teacherService *service.TeacherService,
	questionService *service.QuestionService,
	subjectService *service.SubjectService,
	diagrams *service.DiagramStorage,
) *TeacherController {
	return &TeacherController{
		TeacherService:  teacherService,
		QuestionService: questionService,
		SubjectService:  subjectService,
		Diagrams:        diagrams,
	}
}

// Subjects godoc
// @Summary 主题列表（教师端）
// @Tags 教师
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]service.SubjectProgressView}
// @Router /api/teacher/subjects [get]
func (c *TeacherController) Subjects(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	subjects, err := c.SubjectService.ListForUser(claims.UserID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, subjects)
}

// Students godoc
// @Summary 学生列表
// @Description 全部学生按积分排序，附学习和测验的专注时长汇总
// @Tags 教师
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]service.StudentOverview}
// @Router /api/teacher/students [get]
func (c *TeacherController) Students(ctx *gin.Context) {
	students, err := c.TeacherService.ListStudents()
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, students)
}

// StudentDetail godoc
// @Summary 学生学情详情
// @Description 名次、主题进度和测验履历
// @Tags 教师
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "学生ID"
// @Success 200 {object} util.Response{data=service.StudentDetail}
// @Failure 404 {object} util.Response "学生不存在"
// @Router /api/teacher/students/{id} [get]
func (c *TeacherController) StudentDetail(ctx *gin.Context) {
	studentID, err := util.ParseUint(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid student id")
		return
	}

	detail, err := c.TeacherService.GetStudentDetail(studentID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, detail)
}

// QuestionAnalytics godoc
// @Summary 题目表现分析
// @Description 最常被跳过、答对、答错的题目排行
// @Tags 教师
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.QuestionAnalytics}
// @Router /api/teacher/questions/analytics [get]
func (c *TeacherController) QuestionAnalytics(ctx *gin.Context) {
	analytics, err := c.TeacherService.GetQuestionAnalytics()
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, analytics)
}

// SubjectQuestions godoc
// @Summary 主题题目清单
// @Description 某主题下两类题目的完整清单，供教师端浏览编辑
// @Tags 教师
// @Produce json
// @Security ApiKeyAuth
// @Param subject path string true "主题名"
// @Success 200 {object} util.Response{data=service.SubjectQuestionsView}
// @Failure 404 {object} util.Response "主题不存在"
// @Router /api/teacher/subjects/{subject}/questions [get]
func (c *TeacherController) SubjectQuestions(ctx *gin.Context) {
	view, err := c.QuestionService.ListBySubject(ctx.Request.Context(), ctx.Param("subject"))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// CreateAlternativeQuestion godoc
// @Summary 新建选择题
// @Description 校验选项数量、正确项和错误项提示后入库
// @Tags 教师
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.AlternativeQuestionInput true "题目内容"
// @Success 201 {object} util.Response{data=model.AlternativeQuestion}
// @Failure 400 {object} util.Response "逐字段校验错误"
// @Router /api/teacher/questions/alternative [post]
func (c *TeacherController) CreateAlternativeQuestion(ctx *gin.Context) {
	var input service.AlternativeQuestionInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	question, err := c.QuestionService.CreateAlternative(ctx.Request.Context(), &input)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Created(ctx, question)
}

// GetAlternativeQuestion godoc
// @Summary 查看选择题
// @Tags 教师
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "题目ID"
// @Success 200 {object} util.Response{data=model.AlternativeQuestion}
// @Failure 404 {object} util.Response "题目不存在"
// @Router /api/teacher/questions/alternative/{id} [get]
func (c *TeacherController) GetAlternativeQuestion(ctx *gin.Context) {
	id, err := util.ParseUint(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid question id")
		return
	}

	question, err := c.QuestionService.GetAlternative(id)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, question)
}

// UpdateAlternativeQuestion godoc
// @Summary 更新选择题
// @Description 整体覆盖题干和选项
// @Tags 教师
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "题目ID"
// @Param body body service.AlternativeQuestionInput true "题目内容"
// @Success 200 {object} util.Response{data=model.AlternativeQuestion}
// @Failure 400 {object} util.Response "逐字段校验错误"
// @Router /api/teacher/questions/alternative/{id} [put]
func (c *TeacherController) UpdateAlternativeQuestion(ctx *gin.Context) {
	id, err := util.ParseUint(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid question id")
		return
	}

	var input service.AlternativeQuestionInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	question, err := c.QuestionService.UpdateAlternative(ctx.Request.Context(), id, &input)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, question)
}

// DeleteAlternativeQuestion godoc
// @Summary 删除选择题
// @Description 软删除，历史测验仍可回看
// @Tags 教师
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "题目ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "题目不存在"
// @Router /api/teacher/questions/alternative/{id} [delete]
func (c *TeacherController) DeleteAlternativeQuestion(ctx *gin.Context) {
	id, err := util.ParseUint(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid question id")
		return
	}

	if err := c.QuestionService.DeleteAlternative(ctx.Request.Context(), id); err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// CreateComplexQuestion godoc
// @Summary 新建数值题模板
// @Description 录入时以变量下界试算公式，求值失败拒绝入库
// @Tags 教师
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.ComplexQuestionInput true "模板内容"
// @Success 201 {object} util.Response{data=model.ComplexQuestion}
// @Failure 400 {object} util.Response "逐字段校验错误"
// @Router /api/teacher/questions/complex [post]
func (c *TeacherController) CreateComplexQuestion(ctx *gin.Context) {
	var input service.ComplexQuestionInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	question, err := c.QuestionService.CreateComplex(ctx.Request.Context(), &input)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Created(ctx, question)
}

// GetComplexQuestion godoc
// @Summary 查看数值题模板
// @Tags 教师
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "题目ID"
// @Success 200 {object} util.Response{data=model.ComplexQuestion}
// @Failure 404 {object} util.Response "题目不存在"
// @Router /api/teacher/questions/complex/{id} [get]
func (c *TeacherController) GetComplexQuestion(ctx *gin.Context) {
	id, err := util.ParseUint(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid question id")
		return
	}

	question, err := c.QuestionService.GetComplex(id)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, question)
}

// UpdateComplexQuestion godoc
// @Summary 更新数值题模板
// @Tags 教师
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "题目ID"
// @Param body body service.ComplexQuestionInput true "模板内容"
// @Success 200 {object} util.Response{data=model.ComplexQuestion}
// @Failure 400 {object} util.Response "逐字段校验错误"
// @Router /api/teacher/questions/complex/{id} [put]
func (c *TeacherController) UpdateComplexQuestion(ctx *gin.Context) {
	id, err := util.ParseUint(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid question id")
		return
	}

	var input service.ComplexQuestionInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	question, err := c.QuestionService.UpdateComplex(ctx.Request.Context(), id, &input)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, question)
}

// DeleteComplexQuestion godoc
// @Summary 删除数值题模板
// @Tags 教师
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "题目ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "题目不存在"
// @Router /api/teacher/questions/complex/{id} [delete]
func (c *TeacherController) DeleteComplexQuestion(ctx *gin.Context) {
	id, err := util.ParseUint(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid question id")
		return
	}

	if err := c.QuestionService.DeleteComplex(ctx.Request.Context(), id); err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// UploadDiagram godoc
// @Summary 上传SVG示意图
// @Description 数值题模板用的示意图，只接受 svg 文件
// @Tags 教师
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param file formData file true "SVG文件"
// @Success 201 {object} util.Response{data=object}
// @Failure 400 {object} util.Response "文件类型不支持"
// @Router /api/teacher/diagrams [post]
func (c *TeacherController) UploadDiagram(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	url, err := c.Diagrams.UploadSVG(ctx.Request.Context(), fileHeader.Filename, file, fileHeader.Size)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Created(ctx, gin.H{"url": url})
}
