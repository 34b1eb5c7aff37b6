package renderer

// pointShaderFS composites the accumulated point texture. Edge softness
// blurs the point silhouettes by mixing in neighboring texels; edge fade
// darkens the viewport borders so the cloud dissolves instead of clipping.
// The turbulence and range uniforms are pushed with every preset even
// though this composite only reads the edge fields - the stage contract is
// that the full preset crosses the boundary every frame.
const pointShaderFS = `#version 330

in vec2 fragTexCoord;
in vec4 fragColor;

uniform sampler2D texture0;
uniform float pointSize;
uniform float edgeSoftness;
uniform float edgeFade;
uniform vec4 turb1;
uniform vec4 turb2;
uniform vec4 ranges;

out vec4 finalColor;

void main()
{
    vec2 texel = 1.0 / vec2(textureSize(texture0, 0));

    vec4 c = texture(texture0, fragTexCoord);
    if (edgeSoftness > 0.0)
    {
        float r = edgeSoftness * 1.5;
        vec4 blur = texture(texture0, fragTexCoord + vec2( texel.x, 0.0) * r)
                  + texture(texture0, fragTexCoord + vec2(-texel.x, 0.0) * r)
                  + texture(texture0, fragTexCoord + vec2(0.0,  texel.y) * r)
                  + texture(texture0, fragTexCoord + vec2(0.0, -texel.y) * r);
        c = mix(c, blur * 0.25, clamp(edgeSoftness, 0.0, 1.0) * 0.6);
    }

    // radial falloff toward the viewport border
    vec2 d = fragTexCoord - vec2(0.5);
    float border = smoothstep(0.5, 0.5 - 0.18, max(abs(d.x), abs(d.y)));
    float fade = mix(1.0, border, clamp(edgeFade, 0.0, 1.0));

    finalColor = vec4(c.rgb, c.a * fade) * fragColor;
}
`
